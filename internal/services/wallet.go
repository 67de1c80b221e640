package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

var (
	// ErrWalletNotFound is returned when a wallet does not exist or is not owned by the caller.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrWalletHasTransactions is returned when a wallet cannot be deleted
	// because transactions still reference it.
	ErrWalletHasTransactions = errors.New("wallet has related transactions")
)

// foreign_key_violation, https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgForeignKeyViolation = "23503"

// WalletLister defines wallet read operations needed by the wallet service.
type WalletLister interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.WalletDB, error)
}

// WalletStore defines wallet write operations needed by the wallet service.
type WalletStore interface {
	Save(ctx context.Context, userID uuid.UUID, name, walletType string, balance decimal.Decimal) (uuid.UUID, error)
	Update(ctx context.Context, userID, walletID uuid.UUID, name, walletType string, isActive bool) error
	Delete(ctx context.Context, userID, walletID uuid.UUID) error
}

// WalletTransactionCounter counts transactions referencing a wallet.
type WalletTransactionCounter interface {
	CountByWalletID(ctx context.Context, userID, walletID uuid.UUID) (int64, error)
}

// WalletService handles wallet CRUD.
type WalletService struct {
	reader  WalletLister
	writer  WalletStore
	counter WalletTransactionCounter
}

// NewWalletService creates a new WalletService.
func NewWalletService(reader WalletLister, writer WalletStore, counter WalletTransactionCounter) *WalletService {
	return &WalletService{reader: reader, writer: writer, counter: counter}
}

// Create adds a wallet with an initial balance.
func (s *WalletService) Create(ctx context.Context, userID uuid.UUID, name, walletType string, balance decimal.Decimal) (uuid.UUID, error) {
	walletID, err := s.writer.Save(ctx, userID, name, walletType, balance)
	if err != nil {
		logger.Log.Errorw("failed to save wallet", "userID", userID, "name", name, "error", err)
		return uuid.Nil, err
	}
	return walletID, nil
}

// List returns all wallets of a user.
func (s *WalletService) List(ctx context.Context, userID uuid.UUID) ([]models.WalletDB, error) {
	wallets, err := s.reader.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list wallets", "userID", userID, "error", err)
		return nil, err
	}
	return wallets, nil
}

// Update overwrites a wallet's name, type, and active flag.
func (s *WalletService) Update(ctx context.Context, userID, walletID uuid.UUID, name, walletType string, isActive bool) error {
	if err := s.writer.Update(ctx, userID, walletID, name, walletType, isActive); err != nil {
		logger.Log.Errorw("failed to update wallet", "userID", userID, "walletID", walletID, "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWalletNotFound
		}
		return err
	}
	return nil
}

// Delete removes a wallet if nothing references it. The pre-check and the
// delete run in the same request transaction; a concurrent insert against
// the wallet surfaces as a foreign key violation, which is reported the
// same way as the pre-check.
func (s *WalletService) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	count, err := s.counter.CountByWalletID(ctx, userID, walletID)
	if err != nil {
		logger.Log.Errorw("failed to count wallet transactions", "userID", userID, "walletID", walletID, "error", err)
		return err
	}
	if count > 0 {
		logger.Log.Warnw("wallet delete blocked", "userID", userID, "walletID", walletID, "transactions", count)
		return ErrWalletHasTransactions
	}

	if err := s.writer.Delete(ctx, userID, walletID); err != nil {
		logger.Log.Errorw("failed to delete wallet", "userID", userID, "walletID", walletID, "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWalletNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrWalletHasTransactions
		}
		return err
	}

	return nil
}
