// Package refresh re-resolves landmarks in the background on request.
package refresh

import (
	"context"
	"sync"
	"time"
)

type Job struct {
	LPNumber string
}

// Refresher is a fixed worker pool. A landmark already queued or in flight is
// not queued again.
type Refresher struct {
	ch      chan Job
	inFly   sync.Map // lp number -> struct{}
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
	Do      func(ctx context.Context, j Job)
}

func New(capacity int, workerCount int, timeout time.Duration, do func(ctx context.Context, j Job)) *Refresher {
	if capacity <= 0 {
		capacity = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	r := &Refresher{ch: make(chan Job, capacity), timeout: timeout, Do: do}
	r.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

// Enqueue reports whether j was accepted. It is false when the same landmark
// is already pending or the queue is full.
func (r *Refresher) Enqueue(j Job) bool {
	if j.LPNumber == "" {
		return false
	}
	if _, exists := r.inFly.LoadOrStore(j.LPNumber, struct{}{}); exists {
		return false
	}
	select {
	case r.ch <- j:
		return true
	default:
		// drop if saturated
		r.inFly.Delete(j.LPNumber)
		return false
	}
}

// Close stops accepting work and waits for queued jobs to finish. Enqueue
// must not be called after Close.
func (r *Refresher) Close() {
	r.once.Do(func() { close(r.ch) })
	r.wg.Wait()
}

func (r *Refresher) worker() {
	defer r.wg.Done()
	for j := range r.ch {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		func() {
			defer func() {
				r.inFly.Delete(j.LPNumber)
				cancel()
			}()
			if r.Do != nil {
				r.Do(ctx, j)
			}
		}()
	}
}
