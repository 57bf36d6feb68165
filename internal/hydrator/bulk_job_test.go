package hydrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/yourorg/landmark-api/internal/logging"
	"github.com/yourorg/landmark-api/lpc"
)

type fakeRegistry struct {
	mu       sync.Mutex
	total    int
	missing  map[string]bool
	pageErr  map[int]error
	pages    []int
	resolved []string
}

func (r *fakeRegistry) ListLandmarks(_ context.Context, _ lpc.Filters, page, limit int) (lpc.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = append(r.pages, page)
	if err := r.pageErr[page]; err != nil {
		return lpc.Listing{}, err
	}
	start := (page - 1) * limit
	if start >= r.total {
		return lpc.BoundaryListing(page, limit), nil
	}
	end := min(start+limit, r.total)
	out := lpc.Listing{Total: r.total, Page: page, Limit: limit}
	for i := start; i < end; i++ {
		out.Results = append(out.Results, lpc.Landmark{LPNumber: fmt.Sprintf("LP-%05d", i+1), Name: "x"})
	}
	return out, nil
}

func (r *fakeRegistry) ResolveLandmarkRaw(_ context.Context, id string) (*lpc.LandmarkDetail, map[string]any, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = append(r.resolved, id)
	if r.missing[id] {
		return nil, nil, false, nil
	}
	d := &lpc.LandmarkDetail{Landmark: lpc.Landmark{LPNumber: id, Name: "Landmark " + id}}
	return d, map[string]any{"lpNumber": id}, true, nil
}

type fakeCoordinator struct {
	mu         sync.Mutex
	lockHolder string
	checkpoint int
	saved      []int
	cleared    bool
}

func (c *fakeCoordinator) AcquireLock(_ context.Context, _, token string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockHolder != "" {
		return false, nil
	}
	c.lockHolder = token
	return true, nil
}

func (c *fakeCoordinator) ReleaseLock(_ context.Context, _, token string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockHolder != token {
		return false, nil
	}
	c.lockHolder = ""
	return true, nil
}

func (c *fakeCoordinator) LoadCheckpoint(context.Context, string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkpoint, nil
}

func (c *fakeCoordinator) SaveCheckpoint(_ context.Context, _ string, page int, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpoint = page
	c.saved = append(c.saved, page)
	return nil
}

func (c *fakeCoordinator) ClearCheckpoint(context.Context, string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpoint = 0
	c.cleared = true
	return nil
}

type BulkJobSuite struct {
	suite.Suite
	reg    *fakeRegistry
	coord  *fakeCoordinator
	writer *fakeWriter
	job    *BulkJob
}

func TestBulkJobSuite(t *testing.T) {
	suite.Run(t, new(BulkJobSuite))
}

func (s *BulkJobSuite) SetupTest() {
	s.reg = &fakeRegistry{total: 7}
	s.coord = &fakeCoordinator{}
	s.writer = &fakeWriter{}
	s.job = &BulkJob{
		Registry:    s.reg,
		Hydrator:    &Hydrator{Store: s.writer},
		Coordinator: s.coord,
		Logger:      logging.Discard(),
		Config:      BulkConfig{PageSize: 3, Concurrency: 2},
	}
}

func (s *BulkJobSuite) TestWalksUntilShortPage() {
	stats, err := s.job.RunOnce(context.Background())
	s.Require().NoError(err)
	s.True(stats.Complete)
	s.Equal(3, stats.Pages)
	s.Equal(7, stats.Persisted)
	s.Equal([]int{1, 2, 3}, s.reg.pages)
	s.ElementsMatch([]string{"LP-00001", "LP-00002", "LP-00003", "LP-00004", "LP-00005", "LP-00006", "LP-00007"}, s.writer.lpNumbers())
	s.Equal([]int{1, 2, 3}, s.coord.saved)
	s.True(s.coord.cleared)
	s.Empty(s.coord.lockHolder, "lock must be released")
}

func (s *BulkJobSuite) TestStopsOnEmptyPage() {
	s.reg.total = 6
	stats, err := s.job.RunOnce(context.Background())
	s.Require().NoError(err)
	s.True(stats.Complete)
	s.Equal(2, stats.Pages)
	s.Equal([]int{1, 2, 3}, s.reg.pages)
}

func (s *BulkJobSuite) TestResumesFromCheckpoint() {
	s.coord.checkpoint = 2
	stats, err := s.job.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(3, stats.StartPage)
	s.Equal([]int{3}, s.reg.pages)
	s.Equal([]string{"LP-00007"}, s.writer.lpNumbers())
}

func (s *BulkJobSuite) TestPageCeilingKeepsCheckpoint() {
	s.job.Config.MaxPages = 1
	stats, err := s.job.RunOnce(context.Background())
	s.Require().NoError(err)
	s.False(stats.Complete)
	s.False(s.coord.cleared)
	s.Equal(1, s.coord.checkpoint)
}

func (s *BulkJobSuite) TestLockHeldElsewhere() {
	s.coord.lockHolder = "other-run"
	_, err := s.job.RunOnce(context.Background())
	s.ErrorIs(err, ErrLocked)
	s.Empty(s.reg.pages)
	s.Equal("other-run", s.coord.lockHolder)
}

func (s *BulkJobSuite) TestLandmarkFailuresAreCounted() {
	s.reg.missing = map[string]bool{"LP-00002": true}
	stats, err := s.job.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(6, stats.Persisted)
	s.Equal(1, stats.Failed)
}

func (s *BulkJobSuite) TestListingErrorAbortsRun() {
	boom := errors.New("registry down")
	s.reg.pageErr = map[int]error{2: boom}
	stats, err := s.job.RunOnce(context.Background())
	s.ErrorIs(err, boom)
	s.Equal(1, stats.Pages)
	s.Equal(1, s.coord.checkpoint)
	s.False(s.coord.cleared)
	s.Empty(s.coord.lockHolder)
}

func (s *BulkJobSuite) TestRunsWithoutCoordinator() {
	s.job.Coordinator = nil
	s.job.Config.RequestsPerSecond = 1000
	stats, err := s.job.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(7, stats.Persisted)
}

func (s *BulkJobSuite) TestRequiresStore() {
	s.job.Hydrator = &Hydrator{}
	_, err := s.job.RunOnce(context.Background())
	s.Error(err)
}
