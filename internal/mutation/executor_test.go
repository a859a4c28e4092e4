package mutation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/events"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
)

type fakeInvalidator struct {
	mu       sync.Mutex
	patterns []query.Key
}

func (f *fakeInvalidator) Invalidate(pattern query.Key) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patterns = append(f.patterns, pattern)
}

func (f *fakeInvalidator) calls() []query.Key {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]query.Key, len(f.patterns))
	copy(out, f.patterns)
	return out
}

type fakeNotifier struct {
	mu            sync.Mutex
	notifications []events.Notification
}

func (f *fakeNotifier) Notify(level events.Level, title, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, events.Notification{Level: level, Title: title, Message: message})
}

func (f *fakeNotifier) all() []events.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.Notification, len(f.notifications))
	copy(out, f.notifications)
	return out
}

func newTestExecutor() (*Executor, *fakeInvalidator, *fakeNotifier) {
	queries := &fakeInvalidator{}
	bus := &fakeNotifier{}
	e := NewExecutor(ExecutorParams{})
	e.queries = queries
	e.bus = bus
	return e, queries, bus
}

func TestExecuteInvalidatesDeclaredKeys(t *testing.T) {
	e, queries, bus := newTestExecutor()

	op := Operation{
		Name:  "connections.approve",
		Title: "Approve connection",
		InvalidateKeys: []query.Key{
			query.K("connections", "pending"),
			query.K("connections", "all"),
		},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			return nil, nil
		},
	}

	_, err := e.Execute(context.Background(), op, "con-002", nil)
	require.NoError(t, err)

	assert.Equal(t, []query.Key{
		query.K("connections", "pending"),
		query.K("connections", "all"),
	}, queries.calls())

	notifications := bus.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, events.LevelSuccess, notifications[0].Level)
	assert.Equal(t, "Approve connection", notifications[0].Title)
}

func TestExecuteFailureSkipsInvalidation(t *testing.T) {
	e, queries, bus := newTestExecutor()

	op := Operation{
		Name:           "bills.mark_paid",
		Title:          "Mark bill paid",
		InvalidateKeys: []query.Key{query.K("bills")},
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Only unpaid bills can be settled")
		},
	}

	_, err := e.Execute(context.Background(), op, "bil-001", nil)
	require.Error(t, err)

	assert.Empty(t, queries.calls(), "failed mutations leave the cache untouched")

	notifications := bus.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, events.LevelError, notifications[0].Level)
	assert.Equal(t, "Only unpaid bills can be settled", notifications[0].Message,
		"backend message is forwarded verbatim")
}

func TestDuplicateSubmitFailsFast(t *testing.T) {
	e, _, _ := newTestExecutor()

	gate := make(chan struct{})
	started := make(chan struct{})
	var backendCalls int
	var mu sync.Mutex

	op := Operation{
		Name: "connections.approve",
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			mu.Lock()
			backendCalls++
			mu.Unlock()
			close(started)
			<-gate
			return nil, nil
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.Execute(context.Background(), op, "con-002", nil)
		done <- err
	}()

	<-started
	assert.True(t, e.Pending(op, "con-002"))

	_, err := e.Execute(context.Background(), op, "con-002", nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.ErrDuplicateMutation.Code))

	mu.Lock()
	assert.Equal(t, 1, backendCalls, "the duplicate never reaches the backend")
	mu.Unlock()

	close(gate)
	require.NoError(t, <-done)
	assert.False(t, e.Pending(op, "con-002"))
}

func TestSameOperationDifferentTargetsRunConcurrently(t *testing.T) {
	e, _, _ := newTestExecutor()

	gate := make(chan struct{})
	started := make(chan struct{})

	op := Operation{
		Name: "tasks.delete",
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			select {
			case <-started:
			default:
				close(started)
				<-gate
			}
			return nil, nil
		},
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.Execute(context.Background(), op, "tsk-001", nil)
		done <- err
	}()

	<-started
	_, err := e.Execute(context.Background(), op, "tsk-002", nil)
	assert.NoError(t, err, "a different target is not a duplicate")

	close(gate)
	require.NoError(t, <-done)
}

func TestNotificationFiresAfterSettle(t *testing.T) {
	e, _, bus := newTestExecutor()

	settled := false
	op := Operation{
		Name: "archive.approve",
		Do: func(ctx context.Context, payload interface{}) (interface{}, error) {
			time.Sleep(10 * time.Millisecond)
			settled = true
			return nil, nil
		},
	}

	_, err := e.Execute(context.Background(), op, "arc-001", nil)
	require.NoError(t, err)
	assert.True(t, settled, "Execute returns only after the backend settles")
	assert.Len(t, bus.all(), 1)
}

func TestOperationCatalogIsNeverRetryable(t *testing.T) {
	// None of the admin mutations is idempotent-safe.
	for _, op := range []Operation{
		ApproveConnection(nil), RejectConnection(nil), UpdateConnectionStatus(nil),
		DeleteConnection(nil), ApproveArchive(nil), RejectArchive(nil),
		UpdateResident(nil), ArchiveResident(nil),
		CreatePersonnel(nil), UpdatePersonnel(nil), ArchivePersonnel(nil),
		UpdatePersonnelStatus(nil), MarkBillPaid(nil), UpdateIncidentStatus(nil),
		AssignIncident(nil), CreateTask(nil), UpdateTaskStatus(nil),
		DeleteTask(nil), CreateAnnouncement(nil), DeleteAnnouncement(nil),
	} {
		assert.False(t, op.Retryable, "operation %s must not be retryable", op.Name)
	}
}
