package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// DashboardReader aggregates ledger data for the dashboard.
type DashboardReader interface {
	TotalAssets(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	MonthlySums(ctx context.Context, userID uuid.UUID, month time.Time) (income, expense decimal.Decimal, err error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionWithNames, error)
}

// StatsCache caches assembled dashboard stats per user.
type StatsCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error)
	Set(ctx context.Context, userID uuid.UUID, stats *models.DashboardStats) error
}

// recentLimit is the number of transactions shown on the dashboard.
const recentLimit = 5

// DashboardService assembles per-user dashboard stats from the ledger,
// with a cache in front of the aggregation queries.
type DashboardService struct {
	reader DashboardReader
	cache  StatsCache
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(reader DashboardReader, cache StatsCache) *DashboardService {
	return &DashboardService{reader: reader, cache: cache}
}

// Stats returns the user's dashboard: total assets across active wallets,
// income and expense sums for the month containing now, the savings rate,
// and the most recent transactions. Reads through the cache when possible;
// ledger mutations invalidate the cached entry.
func (s *DashboardService) Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*models.DashboardStats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			logger.Log.Errorw("failed to read dashboard cache", "userID", userID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	totalAssets, err := s.reader.TotalAssets(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to compute total assets", "userID", userID, "error", err)
		return nil, err
	}

	income, expense, err := s.reader.MonthlySums(ctx, userID, now)
	if err != nil {
		logger.Log.Errorw("failed to compute monthly sums", "userID", userID, "error", err)
		return nil, err
	}

	recent, err := s.reader.Recent(ctx, userID, recentLimit)
	if err != nil {
		logger.Log.Errorw("failed to load recent transactions", "userID", userID, "error", err)
		return nil, err
	}

	stats := &models.DashboardStats{
		TotalAssets:        totalAssets,
		MonthlyIncome:      income,
		MonthlyExpense:     expense,
		SavingsRate:        savingsRate(income, expense),
		Month:              now.UTC().Format("January 2006"),
		RecentTransactions: recent,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, stats); err != nil {
			logger.Log.Errorw("failed to cache dashboard stats", "userID", userID, "error", err)
		}
	}

	return stats, nil
}

// savingsRate is the percentage of monthly income not spent, rounded to the
// nearest whole percent. Zero income yields a zero rate; the rate goes
// negative when expenses exceed income.
func savingsRate(income, expense decimal.Decimal) int64 {
	if income.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return income.Sub(expense).Div(income).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
