package query

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/metrics"
)

// Status tracks the fetch lifecycle of one cache entry.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Fetcher loads a collection from the backend.
type Fetcher func(ctx context.Context) (interface{}, error)

// Restorer decodes a persisted snapshot payload back into collection form.
type Restorer func(raw []byte) (interface{}, error)

// View is the read-only state handed to subscribers. Consumers check Status
// explicitly; errors are never thrown into rendering code.
type View struct {
	Data      interface{}
	Status    Status
	Err       error
	Stale     bool
	UpdatedAt time.Time
}

// Listener receives state transitions for a subscribed key.
type Listener func(View)

// SnapshotStore persists entry values between console runs. Implementations
// must treat missing keys as appErrors.ErrCacheMiss.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]byte, time.Time, error)
	Save(ctx context.Context, key string, value []byte, updatedAt time.Time) error
}

// StoreConfig tunes the query store.
type StoreConfig struct {
	MaxAge         time.Duration
	Retention      time.Duration
	MaxIdleEntries int
	FetchTimeout   time.Duration
	Snapshots      SnapshotStore
	Logger         *zap.Logger
	Metrics        *metrics.Service
}

// Store is the resource query cache. One entry exists per key; any number of
// subscribers share it, and only fetch-completion and invalidation handlers
// ever write to it.
type Store struct {
	mu      sync.Mutex
	cfg     StoreConfig
	entries map[string]*entry
	idle    *lru.Cache[string, time.Time]
	logger  *zap.Logger
	now     func() time.Time
}

type subscriber struct {
	id       int
	listener Listener
}

type entry struct {
	// notifyMu serializes listener delivery so a subscriber's initial view
	// can never land after a fetch result that superseded it. Acquired
	// before Store.mu, never while holding it.
	notifyMu      sync.Mutex
	key           Key
	fetcher       Fetcher
	data          interface{}
	hasData       bool
	status        Status
	err           error
	stale         bool
	updatedAt     time.Time
	seq           uint64
	applied       uint64
	inflight      int
	subs          []subscriber
	nextSubID     int
	idleSince     time.Time
	snapshotTried bool
}

func (e *entry) view() View {
	return View{Data: e.data, Status: e.status, Err: e.err, Stale: e.stale, UpdatedAt: e.updatedAt}
}

// NewStore constructs a query store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 5 * time.Minute
	}
	if cfg.MaxIdleEntries <= 0 {
		cfg.MaxIdleEntries = 256
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	s := &Store{
		cfg:     cfg,
		entries: make(map[string]*entry),
		logger:  cfg.Logger,
		now:     time.Now,
	}
	// Evictions only ever see zero-subscriber keys; resubscribing removes the
	// key from the idle list before it can be dropped.
	s.idle, _ = lru.NewWithEvict[string, time.Time](cfg.MaxIdleEntries, func(key string, _ time.Time) {
		delete(s.entries, key)
	})
	return s
}

// SubscribeOptions adjusts one subscription.
type SubscribeOptions struct {
	// MaxAge overrides the store-wide freshness window for this subscribe.
	MaxAge time.Duration
	// Restore enables warm-starting this key from the snapshot store.
	Restore Restorer
}

// Subscription is one consumer's handle on a cache entry.
type Subscription struct {
	store  *Store
	key    Key
	id     int
	closed bool
}

// Subscribe attaches a listener to the entry for key, creating it on first
// use. The listener is called once immediately with the current state and then
// on every transition, in registration order across subscribers. Cached data
// is served at once while a background refresh runs when the entry is stale or
// older than the freshness window. Listeners must not subscribe to the same
// key from inside the callback.
func (s *Store) Subscribe(key Key, fetcher Fetcher, listener Listener, opts SubscribeOptions) *Subscription {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = s.cfg.MaxAge
	}

	s.mu.Lock()
	s.sweepLocked()

	ks := key.String()
	ent, ok := s.entries[ks]
	if !ok {
		ent = &entry{key: key, status: StatusIdle}
		s.entries[ks] = ent
	}
	s.idle.Remove(ks)
	ent.fetcher = fetcher

	ent.nextSubID++
	id := ent.nextSubID
	if listener != nil {
		ent.subs = append(ent.subs, subscriber{id: id, listener: listener})
	} else {
		ent.subs = append(ent.subs, subscriber{id: id})
	}

	if !ent.hasData && !ent.snapshotTried {
		s.restoreLocked(ent, opts.Restore)
	}

	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordSubscribe(ent.hasData)
	}

	fresh := ent.hasData && !ent.stale && s.now().Sub(ent.updatedAt) <= maxAge
	if !ent.hasData {
		ent.status = StatusLoading
	}
	if !fresh {
		s.startFetchLocked(ent, false)
	}
	s.mu.Unlock()

	// The initial delivery re-reads the state under notifyMu: if the fetch
	// already completed and notified, the listener sees that result here
	// instead of a stale loading view delivered after it.
	if listener != nil {
		ent.notifyMu.Lock()
		s.mu.Lock()
		view := ent.view()
		s.mu.Unlock()
		listener(view)
		ent.notifyMu.Unlock()
	}

	return &Subscription{store: s, key: key, id: id}
}

// Current returns the latest state for the subscription's key.
func (sub *Subscription) Current() View {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()
	if ent, ok := sub.store.entries[sub.key.String()]; ok {
		return ent.view()
	}
	return View{Status: StatusIdle}
}

// Close detaches the subscriber. The last close moves the entry onto the idle
// list, where it survives until the retention window or LRU cap evicts it.
func (sub *Subscription) Close() {
	if sub.closed {
		return
	}
	sub.closed = true

	s := sub.store
	s.mu.Lock()
	defer s.mu.Unlock()

	ks := sub.key.String()
	ent, ok := s.entries[ks]
	if !ok {
		return
	}
	for i, candidate := range ent.subs {
		if candidate.id == sub.id {
			ent.subs = append(ent.subs[:i:i], ent.subs[i+1:]...)
			break
		}
	}
	if len(ent.subs) == 0 {
		ent.idleSince = s.now()
		s.idle.Add(ks, ent.idleSince)
	}
}

// Invalidate marks every entry matching the key pattern stale. Entries with
// live subscribers refetch immediately; the rest refetch on next subscribe.
func (s *Store) Invalidate(pattern Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ent := range s.entries {
		if !ent.key.HasPrefix(pattern) {
			continue
		}
		ent.stale = true
		if len(ent.subs) > 0 && ent.fetcher != nil {
			s.startFetchLocked(ent, true)
		}
	}
}

// Run drives the retention sweep until ctx is done. Optional; sweeps also
// piggyback on Subscribe.
func (s *Store) Run(ctx context.Context) {
	interval := s.cfg.Retention / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			s.sweepLocked()
			s.mu.Unlock()
		}
	}
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) sweepLocked() {
	cutoff := s.now().Add(-s.cfg.Retention)
	for _, ks := range s.idle.Keys() {
		since, ok := s.idle.Peek(ks)
		if !ok || since.After(cutoff) {
			continue
		}
		s.idle.Remove(ks)
		delete(s.entries, ks)
	}
}

func (s *Store) restoreLocked(ent *entry, restore Restorer) {
	ent.snapshotTried = true
	if s.cfg.Snapshots == nil || restore == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	raw, updatedAt, err := s.cfg.Snapshots.Load(ctx, ent.key.String())
	if err != nil {
		if !appErrors.IsCode(err, appErrors.ErrCacheMiss.Code) {
			s.logger.Warn("snapshot load failed", zap.String("key", ent.key.String()), zap.Error(err))
		}
		return
	}
	data, err := restore(raw)
	if err != nil {
		s.logger.Warn("snapshot restore failed", zap.String("key", ent.key.String()), zap.Error(err))
		return
	}
	// Snapshot data is always served as stale so a revalidation follows.
	ent.data = data
	ent.hasData = true
	ent.status = StatusSuccess
	ent.stale = true
	ent.updatedAt = updatedAt
}

// startFetchLocked issues a fetch unless one is already in flight and the
// caller did not force a supersede. Caller holds s.mu.
func (s *Store) startFetchLocked(ent *entry, force bool) {
	if ent.fetcher == nil {
		return
	}
	if ent.inflight > 0 && !force {
		return
	}
	ent.seq++
	ent.inflight++
	go s.runFetch(ent.key, ent.fetcher, ent.seq)
}

func (s *Store) runFetch(key Key, fetcher Fetcher, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	start := s.now()
	data, err := fetcher(ctx)
	duration := s.now().Sub(start)
	if err != nil {
		err = classifyFetchError(err)
	}

	s.mu.Lock()
	ent, ok := s.entries[key.String()]
	if !ok {
		// Entry evicted while the request was in flight; nothing to update.
		s.mu.Unlock()
		return
	}
	ent.inflight--

	if seq <= ent.applied {
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.RecordStaleDiscard()
		}
		s.mu.Unlock()
		return
	}
	ent.applied = seq

	outcome := "success"
	if err != nil {
		outcome = "error"
		ent.status = StatusError
		ent.err = err
		// Previous data stays so the UI can show stale rows beside the error.
	} else {
		ent.data = data
		ent.hasData = true
		ent.status = StatusSuccess
		ent.err = nil
		ent.stale = false
		ent.updatedAt = s.now()
	}
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.RecordFetch(key.Resource(), outcome, duration)
	}

	if err == nil && s.cfg.Snapshots != nil {
		s.saveSnapshot(key, ent.data, ent.updatedAt)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("fetch failed", zap.String("key", key.String()), zap.Error(err))
	}

	// Subscribers and state are re-read under notifyMu so every delivery
	// carries the latest applied state and reaches everyone registered
	// before it.
	ent.notifyMu.Lock()
	s.mu.Lock()
	subs := make([]subscriber, len(ent.subs))
	copy(subs, ent.subs)
	view := ent.view()
	s.mu.Unlock()
	for _, sub := range subs {
		if sub.listener != nil {
			sub.listener(view)
		}
	}
	ent.notifyMu.Unlock()
}

func (s *Store) saveSnapshot(key Key, data interface{}, updatedAt time.Time) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("snapshot marshal failed", zap.String("key", key.String()), zap.Error(err))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cfg.Snapshots.Save(ctx, key.String(), raw, updatedAt); err != nil {
			s.logger.Warn("snapshot save failed", zap.String("key", key.String()), zap.Error(err))
		}
	}()
}

func classifyFetchError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, appErrors.ErrTimeout.Message)
	}
	return err
}
