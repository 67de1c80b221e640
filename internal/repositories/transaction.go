package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// TransactionReaderRepository handles transaction read operations
type TransactionReaderRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionReaderRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionReaderRepository {
	return &TransactionReaderRepository{db: db, txGetter: txGetter}
}

func (r *TransactionReaderRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// ListByUserID returns all transactions of a user joined with wallet and
// category names, newest first.
func (r *TransactionReaderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithNames, error) {
	const query = `
		SELECT t.transaction_id, t.user_id, t.wallet_id, t.category_id, t.type, t.amount,
		       t.transaction_date, t.description, t.transfer_id, t.created_at, t.updated_at,
		       w.name AS wallet_name, c.name AS category_name
		FROM transactions t
		JOIN wallets w ON w.wallet_id = t.wallet_id
		JOIN categories c ON c.category_id = t.category_id
		WHERE t.user_id = $1
		ORDER BY t.transaction_date DESC, t.created_at DESC
	`

	var transactions []models.TransactionWithNames
	err := r.db.SelectContext(ctx, &transactions, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", len(transactions),
		"error", err,
	)

	return transactions, err
}

// CountByWalletID returns the number of transactions posted to a wallet.
// Runs on the request transaction when one is present, so the wallet
// delete pre-check and the delete itself cannot be split.
func (r *TransactionReaderRepository) CountByWalletID(ctx context.Context, userID, walletID uuid.UUID) (int64, error) {
	const query = `
		SELECT COUNT(*)
		FROM transactions
		WHERE user_id = $1 AND wallet_id = $2
	`

	var count int64
	err := sqlx.GetContext(ctx, r.executor(ctx), &count, query, userID, walletID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, walletID},
		"result", count,
		"error", err,
	)

	return count, err
}

// TransactionWriterRepository handles transaction write operations
type TransactionWriterRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewTransactionWriterRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *TransactionWriterRepository {
	return &TransactionWriterRepository{db: db, txGetter: txGetter}
}

func (r *TransactionWriterRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetForUpdate loads a transaction row with a row lock, so two concurrent
// mutations of the same transaction cannot both reverse its old amount.
// Returns nil when the transaction does not exist or is not owned by userID.
func (r *TransactionWriterRepository) GetForUpdate(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDB, error) {
	const query = `
		SELECT transaction_id, user_id, wallet_id, category_id, type, amount,
		       transaction_date, description, transfer_id, created_at, updated_at
		FROM transactions
		WHERE transaction_id = $1 AND user_id = $2
		FOR UPDATE
	`

	var txn models.TransactionDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &txn, query, transactionID, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{transactionID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &txn, nil
}

// Save inserts a new transaction row.
func (r *TransactionWriterRepository) Save(ctx context.Context, txn *models.TransactionDB) error {
	const query = `
		INSERT INTO transactions (transaction_id, user_id, wallet_id, category_id, type, amount,
		                          transaction_date, description, transfer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`

	_, err := r.executor(ctx).ExecContext(ctx, query,
		txn.TransactionID, txn.UserID, txn.WalletID, txn.CategoryID, txn.Type, txn.Amount,
		txn.TransactionDate, txn.Description, txn.TransferID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{txn.TransactionID, txn.UserID, txn.WalletID, txn.CategoryID, txn.Type, txn.Amount},
		"error", err,
	)

	return err
}

// Update overwrites the transaction's mutable fields.
// Returns sql.ErrNoRows when the transaction does not exist or is not owned by userID.
func (r *TransactionWriterRepository) Update(ctx context.Context, txn *models.TransactionDB) error {
	const query = `
		UPDATE transactions
		SET wallet_id = $3, category_id = $4, type = $5, amount = $6,
		    transaction_date = $7, description = $8, updated_at = NOW()
		WHERE transaction_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query,
		txn.TransactionID, txn.UserID, txn.WalletID, txn.CategoryID, txn.Type, txn.Amount,
		txn.TransactionDate, txn.Description)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{txn.TransactionID, txn.UserID, txn.WalletID, txn.CategoryID, txn.Type, txn.Amount},
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

// Delete removes the transaction row.
// Returns sql.ErrNoRows when the transaction does not exist or is not owned by userID.
func (r *TransactionWriterRepository) Delete(ctx context.Context, userID, transactionID uuid.UUID) error {
	const query = `
		DELETE FROM transactions
		WHERE transaction_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, transactionID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{transactionID, userID},
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
