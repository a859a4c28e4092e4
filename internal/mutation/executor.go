package mutation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/events"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/internal/query"
	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/metrics"
)

// Operation describes one state-changing backend call: what it is named, which
// cached keys it dirties on success, and whether a retry could ever be safe.
type Operation struct {
	Name           string
	Title          string
	Retryable      bool
	InvalidateKeys []query.Key
	Do             func(ctx context.Context, payload interface{}) (interface{}, error)
}

type invalidator interface {
	Invalidate(pattern query.Key)
}

type notifier interface {
	Notify(level events.Level, title, message string)
}

// Executor performs mutations, guards against duplicate submits, and
// invalidates the declared query keys once the backend confirms.
type Executor struct {
	queries  invalidator
	bus      notifier
	logger   *zap.Logger
	metrics  *metrics.Service
	mu       sync.Mutex
	inflight map[string]struct{}
	now      func() time.Time
}

// ExecutorParams groups constructor dependencies.
type ExecutorParams struct {
	Queries *query.Store
	Bus     *events.Bus
	Logger  *zap.Logger
	Metrics *metrics.Service
}

// NewExecutor constructs an executor.
func NewExecutor(params ExecutorParams) *Executor {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Executor{
		logger:   logger,
		metrics:  params.Metrics,
		inflight: make(map[string]struct{}),
		now:      time.Now,
	}
	if params.Queries != nil {
		e.queries = params.Queries
	}
	if params.Bus != nil {
		e.bus = params.Bus
	}
	return e
}

// Execute runs the operation against target. A second call for the same
// (operation, target) pair while the first is pending fails fast with
// DuplicateMutation and never reaches the backend. Notifications fire only
// after the call settles; retries never happen here regardless of Retryable.
func (e *Executor) Execute(ctx context.Context, op Operation, target string, payload interface{}) (interface{}, error) {
	guard := op.Name + ":" + target

	e.mu.Lock()
	if _, pending := e.inflight[guard]; pending {
		e.mu.Unlock()
		return nil, appErrors.ErrDuplicateMutation
	}
	e.inflight[guard] = struct{}{}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		delete(e.inflight, guard)
		e.mu.Unlock()
	}()

	invocationID := uuid.NewString()
	start := e.now()
	result, err := op.Do(ctx, payload)
	duration := e.now().Sub(start)

	if err != nil {
		appErr := appErrors.FromError(err)
		if e.metrics != nil {
			e.metrics.RecordMutation(op.Name, "error", duration)
		}
		e.logger.Warn("mutation failed",
			zap.String("operation", op.Name),
			zap.String("target", target),
			zap.String("invocation_id", invocationID),
			zap.Error(appErr))
		if e.bus != nil {
			// The backend's message is forwarded verbatim.
			e.bus.Notify(events.LevelError, e.title(op), appErr.Message)
		}
		return nil, appErr
	}

	for _, key := range op.InvalidateKeys {
		if e.queries != nil {
			e.queries.Invalidate(key)
		}
	}

	if e.metrics != nil {
		e.metrics.RecordMutation(op.Name, "success", duration)
	}
	e.logger.Info("mutation applied",
		zap.String("operation", op.Name),
		zap.String("target", target),
		zap.String("invocation_id", invocationID),
		zap.Duration("duration", duration))
	if e.bus != nil {
		e.bus.Notify(events.LevelSuccess, e.title(op), "done")
	}
	return result, nil
}

// Pending reports whether a mutation for the pair is currently in flight,
// used by hosts to disable submit controls.
func (e *Executor) Pending(op Operation, target string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, pending := e.inflight[op.Name+":"+target]
	return pending
}

func (e *Executor) title(op Operation) string {
	if op.Title != "" {
		return op.Title
	}
	return op.Name
}
