package weather

import (
	"context"

	"github.com/i474232898/temperature-history/internal/logging"
)

// RetentionSweeper prunes records older than a fixed number of days.
type RetentionSweeper struct {
	store        Store
	maxAgeInDays int
}

// NewRetentionSweeper returns a sweeper; maxAgeInDays <= 0 disables it.
func NewRetentionSweeper(store Store, maxAgeInDays int) *RetentionSweeper {
	return &RetentionSweeper{store: store, maxAgeInDays: maxAgeInDays}
}

// Enabled reports whether the sweeper has a retention age to enforce.
func (r *RetentionSweeper) Enabled() bool {
	return r.maxAgeInDays > 0
}

// Sweep removes expired records. Failures are logged by the store and never
// surface here.
func (r *RetentionSweeper) Sweep(ctx context.Context) {
	if !r.Enabled() {
		return
	}
	deleted := r.store.Truncate(ctx, r.maxAgeInDays)
	logging.Info("retention sweep finished", "max_age_days", r.maxAgeInDays, "deleted", deleted)
}
