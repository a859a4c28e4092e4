package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus(nil)

	var got []Notification
	bus.Subscribe(EventNotify, func(e Event) {
		if n, ok := e.Payload.(Notification); ok {
			got = append(got, n)
		}
	})

	bus.Notify(LevelSuccess, "Approve connection", "done")

	require.Len(t, got, 1)
	assert.Equal(t, LevelSuccess, got[0].Level)
	assert.Equal(t, "Approve connection", got[0].Title)
}

func TestHandlersRunInRegistrationOrder(t *testing.T) {
	bus := NewBus(nil)

	var order []int
	bus.Subscribe(EventNotify, func(Event) { order = append(order, 1) })
	bus.Subscribe(EventNotify, func(Event) { order = append(order, 2) })
	bus.Subscribe(EventNotify, func(Event) { order = append(order, 3) })

	bus.Notify(LevelInfo, "t", "m")
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(nil)

	var count int
	cancel := bus.Subscribe(EventNotify, func(Event) { count++ })

	bus.Notify(LevelInfo, "t", "m")
	cancel()
	bus.Notify(LevelInfo, "t", "m")

	assert.Equal(t, 1, count)
}

func TestEventNamesIsolated(t *testing.T) {
	bus := NewBus(nil)

	var modals []string
	bus.Subscribe(EventOpenModal, func(e Event) {
		if name, ok := e.Payload.(string); ok {
			modals = append(modals, name)
		}
	})

	bus.Notify(LevelInfo, "t", "m")
	bus.Publish(Event{Name: EventOpenModal, Payload: "schedule-task"})

	assert.Equal(t, []string{"schedule-task"}, modals)
}
