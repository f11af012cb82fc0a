package jobs

import (
	"context"
	"testing"
	"time"

	"staffhub-backend/database/dbtest"
	"staffhub-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPurgeIdempotencyKeys(t *testing.T) {
	db := dbtest.New(t)
	now := time.Now().UTC()

	old := models.IdempotencyKey{Key: "old", UserID: "u1", RequestHash: "h", CreatedAt: now.Add(-48 * time.Hour)}
	fresh := models.IdempotencyKey{Key: "fresh", UserID: "u1", RequestHash: "h", CreatedAt: now.Add(-time.Hour)}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Create(&fresh).Error)

	n, err := PurgeIdempotencyKeys(context.Background(), db, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var left []models.IdempotencyKey
	require.NoError(t, db.Find(&left).Error)
	require.Len(t, left, 1)
	assert.Equal(t, "fresh", left[0].Key)
}

func TestStartSchedulerRejectsBadSchedule(t *testing.T) {
	db := dbtest.New(t)
	_, err := StartScheduler(db, zap.NewNop(), "every now and then", time.Hour)
	assert.Error(t, err)
}

func TestStartScheduler(t *testing.T) {
	db := dbtest.New(t)
	c, err := StartScheduler(db, zap.NewNop(), "@hourly", time.Hour)
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
