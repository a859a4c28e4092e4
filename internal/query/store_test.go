package query

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/errors"
	"github.com/Otwaboy/Agaspay-Capstone-sub004/pkg/metrics"
)

func collectViews() (Listener, chan View) {
	ch := make(chan View, 16)
	return func(v View) {
		select {
		case ch <- v:
		default:
		}
	}, ch
}

func waitStatus(t *testing.T, ch <-chan View, want Status) View {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-ch:
			if v.Status == want {
				return v
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %q", want)
		}
	}
}

func waitFresh(t *testing.T, ch <-chan View) View {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-ch:
			if v.Status == StatusSuccess && !v.Stale {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for fresh data")
		}
	}
}

func TestSubscribeSharesSingleFetch(t *testing.T) {
	store := NewStore(StoreConfig{})

	gate := make(chan struct{})
	var calls int32
	fetcher := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return "rows", nil
	}

	l1, ch1 := collectViews()
	l2, ch2 := collectViews()
	sub1 := store.Subscribe(K("connections", "all"), fetcher, l1, SubscribeOptions{})
	sub2 := store.Subscribe(K("connections", "all"), fetcher, l2, SubscribeOptions{})
	defer sub1.Close()
	defer sub2.Close()

	close(gate)

	v1 := waitFresh(t, ch1)
	v2 := waitFresh(t, ch2)
	assert.Equal(t, "rows", v1.Data)
	assert.Equal(t, "rows", v2.Data)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "both subscribers share one request")
}

func TestSubscribeReportsLoadingFirst(t *testing.T) {
	store := NewStore(StoreConfig{})

	gate := make(chan struct{})
	fetcher := func(ctx context.Context) (interface{}, error) {
		<-gate
		return []string{"a", "b"}, nil
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("bills", "all"), fetcher, listener, SubscribeOptions{})
	defer sub.Close()

	first := <-ch
	assert.Equal(t, StatusLoading, first.Status)
	assert.Nil(t, first.Data)

	close(gate)
	fresh := waitFresh(t, ch)
	assert.Equal(t, []string{"a", "b"}, fresh.Data)
	assert.NoError(t, fresh.Err)
}

func TestLateResponseDiscarded(t *testing.T) {
	metricsService := metrics.NewService()
	store := NewStore(StoreConfig{Metrics: metricsService})

	started := make(chan int32, 2)
	releases := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var calls int32
	fetcher := func(ctx context.Context) (interface{}, error) {
		n := atomic.AddInt32(&calls, 1)
		started <- n
		<-releases[n-1]
		return fmt.Sprintf("result-%d", n), nil
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("residents", "all"), fetcher, listener, SubscribeOptions{})
	defer sub.Close()

	require.Equal(t, int32(1), <-started)

	// A forced refetch supersedes the still-running first request.
	store.Invalidate(K("residents"))
	require.Equal(t, int32(2), <-started)

	close(releases[1])
	fresh := waitFresh(t, ch)
	assert.Equal(t, "result-2", fresh.Data)

	// The first request finishes afterwards and must not clobber the newer
	// result.
	close(releases[0])
	require.Eventually(t, func() bool {
		return metricsService.Stats().StaleDiscarded == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "result-2", sub.Current().Data)
}

func TestFetchErrorKeepsPreviousData(t *testing.T) {
	store := NewStore(StoreConfig{})

	var calls int32
	fetcher := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "good", nil
		}
		return nil, appErrors.Clone(appErrors.ErrServer, "backend down")
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("incidents", "all"), fetcher, listener, SubscribeOptions{})
	defer sub.Close()

	fresh := waitFresh(t, ch)
	require.Equal(t, "good", fresh.Data)

	store.Invalidate(K("incidents"))
	errView := waitStatus(t, ch, StatusError)
	assert.Equal(t, "good", errView.Data, "stale rows stay visible next to the error")
	require.Error(t, errView.Err)
	assert.True(t, appErrors.IsCode(errView.Err, appErrors.ErrServer.Code))
}

func TestInvalidateWithoutSubscribersDefersRefetch(t *testing.T) {
	store := NewStore(StoreConfig{})

	var calls int32
	fetcher := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("tasks", "all"), fetcher, listener, SubscribeOptions{})
	waitFresh(t, ch)
	sub.Close()

	store.Invalidate(K("tasks"))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no refetch while nobody is subscribed")

	listener2, ch2 := collectViews()
	sub2 := store.Subscribe(K("tasks", "all"), fetcher, listener2, SubscribeOptions{})
	defer sub2.Close()

	fresh := waitFresh(t, ch2)
	assert.Equal(t, int32(2), fresh.Data)
}

func TestStaleWhileRevalidate(t *testing.T) {
	store := NewStore(StoreConfig{MaxAge: time.Minute})

	var calls int32
	gate := make(chan struct{})
	fetcher := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return "first", nil
		}
		<-gate
		return "second", nil
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("personnel", "all"), fetcher, listener, SubscribeOptions{})
	waitFresh(t, ch)
	sub.Close()

	// Age the entry past the freshness window.
	base := time.Now()
	store.mu.Lock()
	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	store.mu.Unlock()

	listener2, ch2 := collectViews()
	sub2 := store.Subscribe(K("personnel", "all"), fetcher, listener2, SubscribeOptions{})
	defer sub2.Close()

	// Cached data is served immediately while the refresh runs.
	first := <-ch2
	assert.Equal(t, "first", first.Data)
	assert.Equal(t, StatusSuccess, first.Status)

	close(gate)
	fresh := waitFresh(t, ch2)
	assert.Equal(t, "second", fresh.Data)
}

func TestRetentionEvictsIdleEntries(t *testing.T) {
	store := NewStore(StoreConfig{Retention: time.Minute})

	fetcher := func(ctx context.Context) (interface{}, error) { return "x", nil }

	listener, ch := collectViews()
	sub := store.Subscribe(K("announcements"), fetcher, listener, SubscribeOptions{})
	waitFresh(t, ch)
	sub.Close()
	require.Equal(t, 1, store.Len())

	base := time.Now()
	store.mu.Lock()
	store.now = func() time.Time { return base.Add(10 * time.Minute) }
	store.mu.Unlock()

	// Sweeps piggyback on the next subscribe.
	listener2, ch2 := collectViews()
	sub2 := store.Subscribe(K("bills", "all"), fetcher, listener2, SubscribeOptions{})
	defer sub2.Close()
	waitFresh(t, ch2)

	assert.Equal(t, 1, store.Len(), "idle entry past retention was dropped")
	assert.Equal(t, View{Status: StatusIdle}, sub.Current())
}

func TestIdleCapEvictsOldest(t *testing.T) {
	store := NewStore(StoreConfig{MaxIdleEntries: 2})

	fetcher := func(ctx context.Context) (interface{}, error) { return "x", nil }

	for i := 0; i < 3; i++ {
		listener, ch := collectViews()
		sub := store.Subscribe(K("r", fmt.Sprintf("%d", i)), fetcher, listener, SubscribeOptions{})
		waitFresh(t, ch)
		sub.Close()
	}

	assert.Equal(t, 2, store.Len(), "LRU cap bounds zero-subscriber entries")
}

type fakeSnapshots struct {
	payload   []byte
	updatedAt time.Time
	saved     chan string
}

func (f *fakeSnapshots) Load(ctx context.Context, key string) ([]byte, time.Time, error) {
	if f.payload == nil {
		return nil, time.Time{}, appErrors.ErrCacheMiss
	}
	return f.payload, f.updatedAt, nil
}

func (f *fakeSnapshots) Save(ctx context.Context, key string, value []byte, updatedAt time.Time) error {
	if f.saved != nil {
		select {
		case f.saved <- key:
		default:
		}
	}
	return nil
}

func TestSnapshotWarmStartIsServedStale(t *testing.T) {
	snapshots := &fakeSnapshots{
		payload:   []byte(`"warm"`),
		updatedAt: time.Now().Add(-time.Hour),
		saved:     make(chan string, 1),
	}
	store := NewStore(StoreConfig{Snapshots: snapshots})

	gate := make(chan struct{})
	fetcher := func(ctx context.Context) (interface{}, error) {
		<-gate
		return "live", nil
	}
	restore := func(raw []byte) (interface{}, error) {
		return string(raw), nil
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("connections", "all"), fetcher, listener, SubscribeOptions{Restore: restore})
	defer sub.Close()

	first := <-ch
	assert.Equal(t, StatusSuccess, first.Status)
	assert.True(t, first.Stale, "snapshot data always revalidates")
	assert.Equal(t, `"warm"`, first.Data)

	close(gate)
	fresh := waitFresh(t, ch)
	assert.Equal(t, "live", fresh.Data)

	select {
	case key := <-snapshots.saved:
		assert.Equal(t, "connections/all", key)
	case <-time.After(2 * time.Second):
		t.Fatal("fresh result was not persisted")
	}
}

func TestFetchTimeoutClassified(t *testing.T) {
	store := NewStore(StoreConfig{FetchTimeout: 20 * time.Millisecond})

	fetcher := func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	listener, ch := collectViews()
	sub := store.Subscribe(K("bills", "all"), fetcher, listener, SubscribeOptions{})
	defer sub.Close()

	errView := waitStatus(t, ch, StatusError)
	assert.True(t, appErrors.IsCode(errView.Err, appErrors.ErrTimeout.Code))
}

func TestInitialViewNeverTrailsFetchResult(t *testing.T) {
	store := NewStore(StoreConfig{})

	fetcher := func(ctx context.Context) (interface{}, error) {
		return "rows", nil
	}

	// An instantly-completing fetch races the initial delivery; the loading
	// view must never land after the success it was superseded by.
	for i := 0; i < 100; i++ {
		listener, ch := collectViews()
		sub := store.Subscribe(K("connections", "all", fmt.Sprint(i)), fetcher, listener, SubscribeOptions{})
		waitFresh(t, ch)
		sub.Close()

	drain:
		for {
			select {
			case v := <-ch:
				require.NotEqual(t, StatusLoading, v.Status,
					"loading view delivered after the fetch result")
			default:
				break drain
			}
		}
	}
}
