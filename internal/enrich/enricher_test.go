package enrich

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/landmark-api/internal/events"
	"github.com/yourorg/landmark-api/internal/logging"
	"github.com/yourorg/landmark-api/internal/store"
)

type fakeSource struct {
	mu      sync.Mutex
	refs    map[string][]string
	err     error
	batches [][]string
}

func (f *fakeSource) ArticleReferences(_ context.Context, ids []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]string(nil), ids...))
	return f.refs, f.err
}

type fakeStore struct {
	mu      sync.Mutex
	saved   map[string][]string
	missing map[string]bool
}

func (f *fakeStore) ReplaceArticles(_ context.Context, lp string, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[lp] {
		return store.ErrNotFound
	}
	if f.saved == nil {
		f.saved = map[string][]string{}
	}
	f.saved[lp] = urls
	return nil
}

func (f *fakeStore) snapshot() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]string, len(f.saved))
	for k, v := range f.saved {
		out[k] = v
	}
	return out
}

func TestEnrich(t *testing.T) {
	src := &fakeSource{refs: map[string][]string{"LP-00001": {"https://en.wikipedia.org/wiki/A"}}}
	st := &fakeStore{missing: map[string]bool{"LP-00003": true}}
	e := &Enricher{Source: src, Store: st}

	require.NoError(t, e.Enrich(context.Background(), []string{"LP-00001", "LP-00002", "LP-00003"}))
	assert.Equal(t, map[string][]string{
		"LP-00001": {"https://en.wikipedia.org/wiki/A"},
		"LP-00002": nil,
	}, st.snapshot())
}

func TestEnrichSourceError(t *testing.T) {
	boom := errors.New("upstream")
	e := &Enricher{Source: &fakeSource{err: boom}, Store: &fakeStore{}}
	require.ErrorIs(t, e.Enrich(context.Background(), []string{"LP-00001"}), boom)
}

func TestRunBatchesEvents(t *testing.T) {
	pub := events.NewInMemory(8)
	src := &fakeSource{refs: map[string][]string{}}
	st := &fakeStore{}
	e := &Enricher{
		Pub: pub, Source: src, Store: st, Logger: logging.Discard(),
		BatchSize: 2, FlushInterval: time.Hour,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	pub.PublishLandmarkUpdated(ctx, events.LandmarkUpdated{LPNumber: "LP-00001"})
	pub.PublishLandmarkUpdated(ctx, events.LandmarkUpdated{LPNumber: "LP-00001"})
	pub.PublishLandmarkUpdated(ctx, events.LandmarkUpdated{LPNumber: "LP-00002"})
	pub.PublishLandmarkUpdated(ctx, events.LandmarkUpdated{LPNumber: "LP-00003"})

	require.Eventually(t, func() bool { return len(st.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	src.mu.Lock()
	defer src.mu.Unlock()
	assert.Equal(t, [][]string{{"LP-00001", "LP-00002"}, {"LP-00003"}}, src.batches)
	assert.Len(t, st.snapshot(), 3)
}

func TestStartStopFlushesBeforeReturning(t *testing.T) {
	pub := events.NewInMemory(8)
	st := &fakeStore{}
	e := &Enricher{
		Pub: pub, Source: &fakeSource{refs: map[string][]string{}}, Store: st, Logger: logging.Discard(),
		BatchSize: 10, FlushInterval: time.Hour,
	}

	stop := e.Start(context.Background())
	pub.PublishLandmarkUpdated(context.Background(), events.LandmarkUpdated{LPNumber: "LP-00007"})
	stop()

	assert.Contains(t, st.snapshot(), "LP-00007")
}
