package events

import (
	"sync"

	"go.uber.org/zap"
)

// Name identifies an event channel. Names are typed so publishers and
// subscribers cannot drift apart on bare strings.
type Name string

const (
	// EventNotify carries a Notification payload for the host UI to render.
	EventNotify Name = "notify"
	// EventOpenModal asks the host to open a named modal (schedule task,
	// add personnel). Payload is the modal name string.
	EventOpenModal Name = "modal.open"
)

// Level grades a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification is the plain-data toast request emitted by the sync layer.
type Notification struct {
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Event pairs a channel name with its payload.
type Event struct {
	Name    Name
	Payload interface{}
}

// Handler consumes published events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus is an in-process publish/subscribe hub. It is injected into components
// rather than accessed as a package global.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Name][]subscription
	nextID int
	logger *zap.Logger
}

// NewBus constructs a bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{subs: make(map[Name][]subscription), logger: logger}
}

// Subscribe registers a handler for one event name and returns its
// cancellation func. Handlers run synchronously in registration order.
func (b *Bus) Subscribe(name Name, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[name]
		for i, sub := range list {
			if sub.id == id {
				b.subs[name] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the event to every subscriber of its name.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[event.Name]))
	copy(list, b.subs[event.Name])
	b.mu.RUnlock()

	b.logger.Debug("event published",
		zap.String("name", string(event.Name)),
		zap.Int("subscribers", len(list)))

	for _, sub := range list {
		sub.handler(event)
	}
}

// Notify is shorthand for publishing a Notification on EventNotify.
func (b *Bus) Notify(level Level, title, message string) {
	b.Publish(Event{Name: EventNotify, Payload: Notification{Level: level, Title: title, Message: message}})
}
