package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// WalletReaderRepository handles wallet read operations
type WalletReaderRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewWalletReaderRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WalletReaderRepository {
	return &WalletReaderRepository{db: db, txGetter: txGetter}
}

func (r *WalletReaderRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetByID returns the wallet owned by userID with the given id, or nil if
// no such wallet exists. Reads inside a mutation request run on the
// request transaction.
func (r *WalletReaderRepository) GetByID(ctx context.Context, userID, walletID uuid.UUID) (*models.WalletDB, error) {
	const query = `
		SELECT wallet_id, user_id, name, type, balance, is_active, created_at, updated_at
		FROM wallets
		WHERE wallet_id = $1 AND user_id = $2
		LIMIT 1
	`

	var wallet models.WalletDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &wallet, query, walletID, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{walletID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &wallet, nil
}

// ListByUserID returns all wallets of a user, newest first.
func (r *WalletReaderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.WalletDB, error) {
	const query = `
		SELECT wallet_id, user_id, name, type, balance, is_active, created_at, updated_at
		FROM wallets
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var wallets []models.WalletDB
	err := r.db.SelectContext(ctx, &wallets, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", len(wallets),
		"error", err,
	)

	return wallets, err
}

// WalletWriterRepository handles wallet write operations
type WalletWriterRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewWalletWriterRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *WalletWriterRepository {
	return &WalletWriterRepository{db: db, txGetter: txGetter}
}

func (r *WalletWriterRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new wallet and returns its generated id.
func (r *WalletWriterRepository) Save(ctx context.Context, userID uuid.UUID, name, walletType string, balance decimal.Decimal) (uuid.UUID, error) {
	const query = `
		INSERT INTO wallets (wallet_id, user_id, name, type, balance, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING wallet_id
	`

	var walletID uuid.UUID
	err := sqlx.GetContext(ctx, r.executor(ctx), &walletID, query, uuid.New(), userID, name, walletType, balance)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, name, walletType, balance},
		"result", walletID,
		"error", err,
	)

	return walletID, err
}

// Update overwrites the wallet's name, type, and active flag.
// Returns sql.ErrNoRows when the wallet does not exist or is not owned by userID.
func (r *WalletWriterRepository) Update(ctx context.Context, userID, walletID uuid.UUID, name, walletType string, isActive bool) error {
	const query = `
		UPDATE wallets
		SET name = $3, type = $4, is_active = $5, updated_at = NOW()
		WHERE wallet_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, walletID, userID, name, walletType, isActive)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{walletID, userID, name, walletType, isActive},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the wallet row.
// Returns sql.ErrNoRows when the wallet does not exist or is not owned by userID.
func (r *WalletWriterRepository) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	const query = `
		DELETE FROM wallets
		WHERE wallet_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, walletID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{walletID, userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AdjustBalance adds delta (which may be negative) to the wallet's cached
// balance in a single guarded UPDATE and returns the new balance. The UPDATE
// takes a row lock, so concurrent adjustments of the same wallet serialize
// and no increment is lost. With enforceNonNegative the update refuses to
// drive the balance below zero and reports sql.ErrNoRows.
func (r *WalletWriterRepository) AdjustBalance(ctx context.Context, userID, walletID uuid.UUID, delta decimal.Decimal, enforceNonNegative bool) (decimal.Decimal, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $3, updated_at = NOW()
		WHERE wallet_id = $1 AND user_id = $2
		RETURNING balance
	`
	if enforceNonNegative {
		query = `
			UPDATE wallets
			SET balance = balance + $3, updated_at = NOW()
			WHERE wallet_id = $1 AND user_id = $2 AND balance + $3 >= 0
			RETURNING balance
		`
	}

	var balance decimal.Decimal
	err := sqlx.GetContext(ctx, r.executor(ctx), &balance, query, walletID, userID, delta)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{walletID, userID, delta},
		"result", balance,
		"error", err,
	)

	return balance, err
}
