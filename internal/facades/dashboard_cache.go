package facades

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// DashboardCacheFacade caches computed dashboard stats in Redis.
// The dashboard always covers the current calendar month, so one key per
// user is enough; ledger mutations invalidate it.
type DashboardCacheFacade struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewDashboardCacheFacade creates a new facade with a Redis client.
func NewDashboardCacheFacade(rdb *redis.Client, ttl time.Duration) *DashboardCacheFacade {
	return &DashboardCacheFacade{rdb: rdb, ttl: ttl}
}

func dashboardKey(userID uuid.UUID) string {
	return fmt.Sprintf("dashboard:%s", userID)
}

// Get returns the cached stats for a user, or nil on a cache miss.
func (f *DashboardCacheFacade) Get(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error) {
	data, err := f.rdb.Get(ctx, dashboardKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("failed to read dashboard cache", "userID", userID, "error", err)
		return nil, err
	}

	var stats models.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		logger.Log.Errorw("failed to decode cached dashboard stats", "userID", userID, "error", err)
		return nil, err
	}

	return &stats, nil
}

// Set stores the stats for a user with the configured TTL.
func (f *DashboardCacheFacade) Set(ctx context.Context, userID uuid.UUID, stats *models.DashboardStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	if err := f.rdb.Set(ctx, dashboardKey(userID), data, f.ttl).Err(); err != nil {
		logger.Log.Errorw("failed to write dashboard cache", "userID", userID, "error", err)
		return err
	}

	return nil
}

// Invalidate drops the cached stats for a user.
func (f *DashboardCacheFacade) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := f.rdb.Del(ctx, dashboardKey(userID)).Err(); err != nil {
		logger.Log.Errorw("failed to invalidate dashboard cache", "userID", userID, "error", err)
		return err
	}
	return nil
}
