package hydrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/yourorg/landmark-api/internal/metrics"
	"github.com/yourorg/landmark-api/lpc"
)

// ErrLocked is returned by RunOnce when another collector holds the run lock.
var ErrLocked = errors.New("hydrator: collector run already in progress")

// Registry is the slice of *lpc.Service the collector walks.
type Registry interface {
	ListLandmarks(ctx context.Context, f lpc.Filters, page, limit int) (lpc.Listing, error)
	ResolveLandmarkRaw(ctx context.Context, raw string) (*lpc.LandmarkDetail, map[string]any, bool, error)
}

// Coordinator holds cross-process run state. *redisx.Client implements it.
type Coordinator interface {
	AcquireLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, token string) (bool, error)
	LoadCheckpoint(ctx context.Context, key string) (int, error)
	SaveCheckpoint(ctx context.Context, key string, page int, ttl time.Duration) error
	ClearCheckpoint(ctx context.Context, key string) error
}

type BulkConfig struct {
	Filters lpc.Filters
	// PageSize is the listing page size; MaxPages caps pages walked per run.
	// A run that hits the cap leaves its checkpoint for the next run.
	PageSize int
	MaxPages int
	Interval time.Duration
	// RequestsPerSecond paces registry calls; 0 disables pacing.
	RequestsPerSecond float64
	Concurrency       int
	RequestTimeout    time.Duration

	LockKey       string
	LockTTL       time.Duration
	CheckpointKey string
	CheckpointTTL time.Duration
}

type BulkJob struct {
	Registry    Registry
	Hydrator    *Hydrator
	Coordinator Coordinator
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Config      BulkConfig
}

// RunStats summarises one RunOnce.
type RunStats struct {
	RunID     string
	StartPage int
	Pages     int
	Persisted int
	Failed    int
	Complete  bool
}

func (j *BulkJob) validate() error {
	if j == nil {
		return errors.New("nil bulk job")
	}
	if j.Registry == nil {
		return errors.New("collector job missing registry")
	}
	if !j.Hydrator.Enabled() {
		return errors.New("collector job requires hydrator with store")
	}
	if j.Logger == nil {
		j.Logger = slog.Default()
	}
	c := &j.Config
	if c.PageSize <= 0 {
		c.PageSize = 50
	}
	if c.MaxPages <= 0 {
		c.MaxPages = 200
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.LockKey == "" {
		c.LockKey = "lpc:collector:lock"
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 30 * time.Minute
	}
	if c.CheckpointKey == "" {
		c.CheckpointKey = "lpc:collector:page"
	}
	if c.CheckpointTTL <= 0 {
		c.CheckpointTTL = 7 * 24 * time.Hour
	}
	return nil
}

func (j *BulkJob) Run(ctx context.Context) error {
	if err := j.validate(); err != nil {
		return err
	}
	interval := j.Config.Interval
	if interval <= 0 {
		_, err := j.RunOnce(ctx)
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	j.Logger.Info("collector starting", "interval", interval, "page_size", j.Config.PageSize)
	j.runLogged(ctx)
	for {
		select {
		case <-ctx.Done():
			j.Logger.Info("collector stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			j.runLogged(ctx)
		}
	}
}

func (j *BulkJob) runLogged(ctx context.Context) {
	_, err := j.RunOnce(ctx)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
	case errors.Is(err, ErrLocked):
		j.Logger.Info("collector run skipped, lock held elsewhere")
	default:
		j.Logger.Error("collector run failed", "err", err)
	}
}

// RunOnce walks the listing from the last checkpoint, persisting every
// landmark it can resolve.
func (j *BulkJob) RunOnce(ctx context.Context) (RunStats, error) {
	if err := j.validate(); err != nil {
		return RunStats{}, err
	}
	stats := RunStats{RunID: uuid.NewString()}
	log := j.Logger.With("run_id", stats.RunID)

	if j.Coordinator != nil {
		ok, err := j.Coordinator.AcquireLock(ctx, j.Config.LockKey, stats.RunID, j.Config.LockTTL)
		if err != nil {
			return stats, fmt.Errorf("acquire collector lock: %w", err)
		}
		if !ok {
			return stats, ErrLocked
		}
		defer func() {
			if _, err := j.Coordinator.ReleaseLock(context.WithoutCancel(ctx), j.Config.LockKey, stats.RunID); err != nil {
				log.Warn("collector lock release failed", "err", err)
			}
		}()
	}

	stats.StartPage = 1
	if j.Coordinator != nil {
		last, err := j.Coordinator.LoadCheckpoint(ctx, j.Config.CheckpointKey)
		if err != nil {
			log.Warn("collector checkpoint unreadable, starting over", "err", err)
		} else if last > 0 {
			stats.StartPage = last + 1
			log.Info("collector resuming", "page", stats.StartPage)
		}
	}

	var limiter *rate.Limiter
	if j.Config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(j.Config.RequestsPerSecond), 1)
	}

	pageSize := j.Config.PageSize
	for page := stats.StartPage; page < stats.StartPage+j.Config.MaxPages; page++ {
		if err := wait(ctx, limiter); err != nil {
			return stats, err
		}
		reqCtx, cancel := context.WithTimeout(ctx, j.Config.RequestTimeout)
		listing, err := j.Registry.ListLandmarks(reqCtx, j.Config.Filters, page, pageSize)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			return stats, fmt.Errorf("collector page %d: %w", page, err)
		}
		if len(listing.Results) == 0 {
			if page == 1 {
				log.Warn("collector listing returned 0 landmarks")
			}
			stats.Complete = true
			break
		}

		persisted, failed, err := j.persistPage(ctx, limiter, listing.Results)
		stats.Persisted += persisted
		stats.Failed += failed
		if err != nil {
			return stats, err
		}
		stats.Pages++
		j.Metrics.IncCollectorPage()
		j.saveCheckpoint(ctx, log, page)
		log.Debug("collector page done", "page", page, "persisted", persisted, "failed", failed)

		if len(listing.Results) < pageSize {
			stats.Complete = true
			break
		}
	}

	if stats.Complete && j.Coordinator != nil {
		if err := j.Coordinator.ClearCheckpoint(ctx, j.Config.CheckpointKey); err != nil {
			log.Warn("collector checkpoint clear failed", "err", err)
		}
	}
	log.Info("collector run finished",
		"pages", stats.Pages, "persisted", stats.Persisted, "failed", stats.Failed, "complete", stats.Complete)
	return stats, nil
}

// persistPage resolves and writes one page of landmarks with bounded
// concurrency. Per-landmark failures are logged and counted; only
// cancellation aborts the page.
func (j *BulkJob) persistPage(ctx context.Context, limiter *rate.Limiter, results []lpc.Landmark) (int, int, error) {
	var persisted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.Config.Concurrency)
	for _, l := range results {
		l := l // per-iteration copy; module targets go1.21 loop semantics
		g.Go(func() error {
			if err := wait(gctx, limiter); err != nil {
				return err
			}
			if err := j.persistOne(gctx, l.LPNumber); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				failed.Add(1)
				j.Logger.Warn("collector landmark failed", "lp_number", l.LPNumber, "err", err)
				return nil
			}
			persisted.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(persisted.Load()), int(failed.Load()), err
}

func (j *BulkJob) persistOne(ctx context.Context, lpNumber string) error {
	if lpNumber == "" || lpNumber == lpc.UnknownLPNumber {
		return errors.New("listing entry without lp number")
	}
	reqCtx, cancel := context.WithTimeout(ctx, j.Config.RequestTimeout)
	defer cancel()
	detail, raw, found, err := j.Registry.ResolveLandmarkRaw(reqCtx, lpNumber)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s not found in registry", lpNumber)
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return j.Hydrator.Write(ctx, detail, payload)
}

func (j *BulkJob) saveCheckpoint(ctx context.Context, log *slog.Logger, page int) {
	if j.Coordinator == nil {
		return
	}
	if err := j.Coordinator.SaveCheckpoint(ctx, j.Config.CheckpointKey, page, j.Config.CheckpointTTL); err != nil {
		log.Warn("collector checkpoint save failed", "page", page, "err", err)
	}
}

func wait(ctx context.Context, l *rate.Limiter) error {
	if l == nil {
		return ctx.Err()
	}
	return l.Wait(ctx)
}
