// Package enrich attaches Wikipedia article references to landmarks as they
// are collected.
package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/yourorg/landmark-api/internal/events"
	"github.com/yourorg/landmark-api/internal/store"
)

type ArticleSource interface {
	ArticleReferences(ctx context.Context, lpNumbers []string) (map[string][]string, error)
}

type ArticleStore interface {
	ReplaceArticles(ctx context.Context, lpNumber string, urls []string) error
}

// Enricher consumes LandmarkUpdated events, looks up web content in batches
// and stores the article URLs it finds.
type Enricher struct {
	Pub    events.Publisher
	Source ArticleSource
	Store  ArticleStore
	Logger *slog.Logger

	BatchSize     int
	FlushInterval time.Duration
}

// Start runs the enricher in the background. The returned stop cancels it
// and blocks until the final batch is stored, so callers can close the store
// afterwards.
func (e *Enricher) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (e *Enricher) Run(ctx context.Context) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := e.BatchSize
	if size <= 0 {
		size = 25
	}
	every := e.FlushInterval
	if every <= 0 {
		every = 5 * time.Second
	}

	sub := e.Pub.SubscribeLandmarkUpdated()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	pending := make([]string, 0, size)
	queued := map[string]struct{}{}
	flush := func(ctx context.Context) {
		if len(pending) == 0 {
			return
		}
		if err := e.Enrich(ctx, pending); err != nil {
			logger.Warn("enrich batch failed", "size", len(pending), "err", err)
		}
		pending = pending[:0]
		clear(queued)
	}

	add := func(evt events.LandmarkUpdated) {
		if _, ok := queued[evt.LPNumber]; ok || evt.LPNumber == "" {
			return
		}
		queued[evt.LPNumber] = struct{}{}
		pending = append(pending, evt.LPNumber)
	}

	for {
		select {
		case <-ctx.Done():
			// Drain what is already buffered so a shutdown loses nothing.
			final := context.WithoutCancel(ctx)
			for {
				select {
				case evt := <-sub:
					add(evt)
					if len(pending) >= size {
						flush(final)
					}
				default:
					flush(final)
					return
				}
			}
		case evt := <-sub:
			add(evt)
			if len(pending) >= size {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

// Enrich looks up lpNumbers in one batch and replaces each one's stored
// articles. Landmarks without articles get an empty set.
func (e *Enricher) Enrich(ctx context.Context, lpNumbers []string) error {
	refs, err := e.Source.ArticleReferences(ctx, lpNumbers)
	if err != nil {
		return err
	}
	var joined error
	for _, lp := range lpNumbers {
		err := e.Store.ReplaceArticles(ctx, lp, refs[lp])
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		joined = errors.Join(joined, err)
	}
	return joined
}
