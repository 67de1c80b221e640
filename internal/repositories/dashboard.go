package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// DashboardReadRepository runs the read-only aggregation queries behind
// the dashboard.
type DashboardReadRepository struct {
	db *sqlx.DB
}

func NewDashboardReadRepository(db *sqlx.DB) *DashboardReadRepository {
	return &DashboardReadRepository{db: db}
}

// TotalAssets returns the sum of balances over the user's active wallets.
func (r *DashboardReadRepository) TotalAssets(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(balance), 0)
		FROM wallets
		WHERE user_id = $1 AND is_active
	`

	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", total,
		"error", err,
	)

	return total, err
}

// MonthlySums returns the income and expense totals for the calendar month
// containing the given time.
func (r *DashboardReadRepository) MonthlySums(ctx context.Context, userID uuid.UUID, month time.Time) (income, expense decimal.Decimal, err error) {
	const query = `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0)  AS income,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0) AS expense
		FROM transactions
		WHERE user_id = $1
		  AND transaction_date >= $2
		  AND transaction_date < $3
	`

	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var sums struct {
		Income  decimal.Decimal `db:"income"`
		Expense decimal.Decimal `db:"expense"`
	}
	err = r.db.GetContext(ctx, &sums, query, userID, start, end)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, start, end},
		"result", sums,
		"error", err,
	)

	return sums.Income, sums.Expense, err
}

// Recent returns the user's most recent transactions, newest first.
func (r *DashboardReadRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]models.TransactionWithNames, error) {
	const query = `
		SELECT t.transaction_id, t.user_id, t.wallet_id, t.category_id, t.type, t.amount,
		       t.transaction_date, t.description, t.transfer_id, t.created_at, t.updated_at,
		       w.name AS wallet_name, c.name AS category_name
		FROM transactions t
		JOIN wallets w ON w.wallet_id = t.wallet_id
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.transaction_date DESC, t.created_at DESC
		LIMIT $2
	`

	var transactions []models.TransactionWithNames
	err := r.db.SelectContext(ctx, &transactions, query, userID, limit)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, limit},
		"result", len(transactions),
		"error", err,
	)

	return transactions, err
}
