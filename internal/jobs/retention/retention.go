package retention

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MikuVocaloid1337/RiuChanReworkBot/internal/metrics"
)

const defaultMaxAge = 7 * 24 * time.Hour

type purger interface {
	PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Job deletes listing records older than the retention window. It runs on a
// fixed daily wall-clock schedule; no caller observes its result, so
// failures are logged by the scheduling loop and never block the next run.
type Job struct {
	listings purger
	maxAge   time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func New(listings purger, maxAge time.Duration, logger *zap.Logger) *Job {
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		listings: listings,
		maxAge:   maxAge,
		now:      time.Now,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.listings == nil {
		return nil
	}

	deleted, err := j.listings.PurgeOlderThan(ctx, j.maxAge)
	if err != nil {
		return fmt.Errorf("purge stale listings: %w", err)
	}

	if deleted > 0 {
		metrics.ListingsPurged.Add(float64(deleted))
		j.logger.Info("retention sweep completed", zap.Int64("deleted", deleted))
	}

	return nil
}

// NextRunAfter returns the next occurrence of hour:00 UTC strictly after now.
func NextRunAfter(now time.Time, hour int) time.Time {
	if hour < 0 || hour > 23 {
		hour = 0
	}

	now = now.UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
