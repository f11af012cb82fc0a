package jobs

import (
	"context"
	"fmt"
	"time"

	"staffhub-backend/models"

	cron "github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurgeIdempotencyKeys deletes keys created before cutoff and reports how many went.
func PurgeIdempotencyKeys(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("created_at < ?", cutoff.UTC()).Delete(&models.IdempotencyKey{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge idempotency keys: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// StartScheduler registers the periodic jobs and starts the cron runner. Stop it on shutdown.
func StartScheduler(db *gorm.DB, log *zap.Logger, schedule string, ttl time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		n, err := PurgeIdempotencyKeys(ctx, db, time.Now().Add(-ttl))
		if err != nil {
			log.Error("idempotency purge failed", zap.Error(err))
			return
		}
		log.Info("idempotency keys purged", zap.Int64("deleted", n))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid idempotency purge schedule %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
