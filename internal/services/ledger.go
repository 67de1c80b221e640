package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

var (
	// ErrTransactionNotFound is returned when a transaction does not exist or is not owned by the caller.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInsufficientFunds is returned when a transfer would overdraw the source wallet.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrSameWallet is returned when a transfer names the same wallet on both sides.
	ErrSameWallet = errors.New("source and destination wallets must differ")
)

// WalletGetter loads a single wallet for ownership checks.
type WalletGetter interface {
	GetByID(ctx context.Context, userID, walletID uuid.UUID) (*models.WalletDB, error)
}

// BalanceAdjuster applies a signed delta to a wallet's cached balance.
type BalanceAdjuster interface {
	AdjustBalance(ctx context.Context, userID, walletID uuid.UUID, delta decimal.Decimal, enforceNonNegative bool) (decimal.Decimal, error)
}

// CategoryGetter loads a single category for ownership checks.
type CategoryGetter interface {
	GetByID(ctx context.Context, userID, categoryID uuid.UUID) (*models.CategoryDB, error)
}

// TransferCategoryProvider resolves the built-in transfer categories.
type TransferCategoryProvider interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID, name, categoryType string) (uuid.UUID, error)
}

// TransactionStore defines transaction row operations needed by the ledger.
type TransactionStore interface {
	GetForUpdate(ctx context.Context, userID, transactionID uuid.UUID) (*models.TransactionDB, error)
	Save(ctx context.Context, txn *models.TransactionDB) error
	Update(ctx context.Context, txn *models.TransactionDB) error
	Delete(ctx context.Context, userID, transactionID uuid.UUID) error
}

// TransactionLister lists transactions for a user.
type TransactionLister interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithNames, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// StatsInvalidator drops a user's cached dashboard stats.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// TransactionInput carries the validated fields of a transaction mutation.
type TransactionInput struct {
	WalletID    uuid.UUID
	CategoryID  uuid.UUID
	Type        string
	Amount      decimal.Decimal
	Date        time.Time
	Description *string
}

// LedgerService keeps wallet balances consistent with transaction history.
// Every mutation runs on the request-scoped database transaction supplied
// by the tx middleware: the row write and the balance adjustment commit or
// roll back together.
type LedgerService struct {
	wallets        WalletGetter
	balances       BalanceAdjuster
	categories     CategoryGetter
	transferCats   TransferCategoryProvider
	store          TransactionStore
	lister         TransactionLister
	kafkaWriter    KafkaWriter
	cache          StatsInvalidator
	allowOverdraft bool
}

// NewLedgerService creates a new LedgerService.
// allowOverdraft controls whether a transfer may drive the source wallet
// balance below zero.
func NewLedgerService(
	wallets WalletGetter,
	balances BalanceAdjuster,
	categories CategoryGetter,
	transferCats TransferCategoryProvider,
	store TransactionStore,
	lister TransactionLister,
	kafkaWriter KafkaWriter,
	cache StatsInvalidator,
	allowOverdraft bool,
) *LedgerService {
	return &LedgerService{
		wallets:        wallets,
		balances:       balances,
		categories:     categories,
		transferCats:   transferCats,
		store:          store,
		lister:         lister,
		kafkaWriter:    kafkaWriter,
		cache:          cache,
		allowOverdraft: allowOverdraft,
	}
}

// publishEvent publishes a ledger mutation to Kafka. Publishing is
// best-effort: a broker failure never fails the mutation. It runs before
// the request transaction commits, so a commit failure can leave a
// published event with no matching row.
func (s *LedgerService) publishEvent(ctx context.Context, operation string, txn *models.TransactionDB) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "transaction_id", txn.TransactionID)
		return
	}

	event := models.LedgerEvent{
		EventID:       uuid.NewString(),
		UserID:        txn.UserID.String(),
		TransactionID: txn.TransactionID.String(),
		Operation:     operation,
		Amount:        txn.Amount,
		Timestamp:     time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal ledger event", "transaction_id", txn.TransactionID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish ledger event", "transaction_id", txn.TransactionID, "error", err)
	} else {
		logger.Log.Infow("Ledger event published", "transaction_id", txn.TransactionID, "operation", operation, "amount", txn.Amount)
	}
}

// invalidateStats drops the user's cached dashboard stats after a mutation.
// It runs before the request transaction commits; a dashboard read racing
// the commit can re-cache pre-mutation stats until the TTL lapses.
func (s *LedgerService) invalidateStats(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate dashboard stats", "userID", userID, "error", err)
	}
}

// List returns all transactions of a user, newest first.
func (s *LedgerService) List(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithNames, error) {
	transactions, err := s.lister.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list transactions", "userID", userID, "error", err)
		return nil, err
	}
	return transactions, nil
}

// CreateTransaction inserts a transaction row and applies its signed amount
// to the wallet's cached balance. Returns the stored transaction and the
// wallet's new balance.
func (s *LedgerService) CreateTransaction(ctx context.Context, userID uuid.UUID, in TransactionInput) (*models.TransactionDB, decimal.Decimal, error) {
	wallet, err := s.wallets.GetByID(ctx, userID, in.WalletID)
	if err != nil {
		logger.Log.Errorw("failed to load wallet", "userID", userID, "walletID", in.WalletID, "error", err)
		return nil, decimal.Zero, err
	}
	if wallet == nil {
		return nil, decimal.Zero, ErrWalletNotFound
	}

	category, err := s.categories.GetByID(ctx, userID, in.CategoryID)
	if err != nil {
		logger.Log.Errorw("failed to load category", "userID", userID, "categoryID", in.CategoryID, "error", err)
		return nil, decimal.Zero, err
	}
	if category == nil {
		return nil, decimal.Zero, ErrCategoryNotFound
	}

	txn := &models.TransactionDB{
		TransactionID:   uuid.New(),
		UserID:          userID,
		WalletID:        in.WalletID,
		CategoryID:      in.CategoryID,
		Type:            in.Type,
		Amount:          in.Amount,
		TransactionDate: in.Date,
		Description:     in.Description,
	}

	if err := s.store.Save(ctx, txn); err != nil {
		logger.Log.Errorw("failed to save transaction", "userID", userID, "error", err)
		return nil, decimal.Zero, err
	}

	newBalance, err := s.balances.AdjustBalance(ctx, userID, in.WalletID, txn.SignedAmount(), false)
	if err != nil {
		logger.Log.Errorw("failed to adjust wallet balance", "userID", userID, "walletID", in.WalletID, "error", err)
		return nil, decimal.Zero, err
	}

	s.publishEvent(ctx, models.OperationCreate, txn)
	s.invalidateStats(ctx, userID)

	return txn, newBalance, nil
}

// UpdateTransaction overwrites a transaction after reversing its old signed
// amount on its old wallet and applying the new signed amount to the new
// wallet. Reverse-then-apply handles wallet reassignment and amount or type
// changes uniformly.
func (s *LedgerService) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, in TransactionInput) (*models.TransactionDB, error) {
	old, err := s.store.GetForUpdate(ctx, userID, transactionID)
	if err != nil {
		logger.Log.Errorw("failed to load transaction", "userID", userID, "transactionID", transactionID, "error", err)
		return nil, err
	}
	if old == nil {
		return nil, ErrTransactionNotFound
	}

	if _, err := s.balances.AdjustBalance(ctx, userID, old.WalletID, old.SignedAmount().Neg(), false); err != nil {
		logger.Log.Errorw("failed to reverse old amount", "userID", userID, "walletID", old.WalletID, "error", err)
		return nil, err
	}

	wallet, err := s.wallets.GetByID(ctx, userID, in.WalletID)
	if err != nil {
		logger.Log.Errorw("failed to load wallet", "userID", userID, "walletID", in.WalletID, "error", err)
		return nil, err
	}
	if wallet == nil {
		return nil, ErrWalletNotFound
	}

	category, err := s.categories.GetByID(ctx, userID, in.CategoryID)
	if err != nil {
		logger.Log.Errorw("failed to load category", "userID", userID, "categoryID", in.CategoryID, "error", err)
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	updated := &models.TransactionDB{
		TransactionID:   old.TransactionID,
		UserID:          userID,
		WalletID:        in.WalletID,
		CategoryID:      in.CategoryID,
		Type:            in.Type,
		Amount:          in.Amount,
		TransactionDate: in.Date,
		Description:     in.Description,
		TransferID:      old.TransferID,
	}

	if _, err := s.balances.AdjustBalance(ctx, userID, in.WalletID, updated.SignedAmount(), false); err != nil {
		logger.Log.Errorw("failed to apply new amount", "userID", userID, "walletID", in.WalletID, "error", err)
		return nil, err
	}

	if err := s.store.Update(ctx, updated); err != nil {
		logger.Log.Errorw("failed to update transaction", "userID", userID, "transactionID", transactionID, "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}

	s.publishEvent(ctx, models.OperationUpdate, updated)
	s.invalidateStats(ctx, userID)

	return updated, nil
}

// DeleteTransaction reverses the transaction's signed amount on its wallet
// and removes the row.
func (s *LedgerService) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	old, err := s.store.GetForUpdate(ctx, userID, transactionID)
	if err != nil {
		logger.Log.Errorw("failed to load transaction", "userID", userID, "transactionID", transactionID, "error", err)
		return err
	}
	if old == nil {
		return ErrTransactionNotFound
	}

	if _, err := s.balances.AdjustBalance(ctx, userID, old.WalletID, old.SignedAmount().Neg(), false); err != nil {
		logger.Log.Errorw("failed to reverse amount", "userID", userID, "walletID", old.WalletID, "error", err)
		return err
	}

	if err := s.store.Delete(ctx, userID, transactionID); err != nil {
		logger.Log.Errorw("failed to delete transaction", "userID", userID, "transactionID", transactionID, "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotFound
		}
		return err
	}

	s.publishEvent(ctx, models.OperationDelete, old)
	s.invalidateStats(ctx, userID)

	return nil
}

// Transfer moves an amount between two wallets of the same user as a linked
// pair of transactions: an expense on the source and an income on the
// destination, sharing a transfer id. The pair leaves the sum of wallet
// balances unchanged. Returns the new balances of both wallets.
func (s *LedgerService) Transfer(ctx context.Context, userID, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal, date time.Time, description *string) (fromBalance, toBalance decimal.Decimal, err error) {
	if fromWalletID == toWalletID {
		return decimal.Zero, decimal.Zero, ErrSameWallet
	}

	from, err := s.wallets.GetByID(ctx, userID, fromWalletID)
	if err != nil {
		logger.Log.Errorw("failed to load source wallet", "userID", userID, "walletID", fromWalletID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}
	if from == nil {
		return decimal.Zero, decimal.Zero, ErrWalletNotFound
	}

	to, err := s.wallets.GetByID(ctx, userID, toWalletID)
	if err != nil {
		logger.Log.Errorw("failed to load destination wallet", "userID", userID, "walletID", toWalletID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}
	if to == nil {
		return decimal.Zero, decimal.Zero, ErrWalletNotFound
	}

	outCategoryID, err := s.transferCats.GetOrCreate(ctx, userID, models.TransferOutCategory, models.CategoryTypeExpense)
	if err != nil {
		logger.Log.Errorw("failed to resolve transfer-out category", "userID", userID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}
	inCategoryID, err := s.transferCats.GetOrCreate(ctx, userID, models.TransferInCategory, models.CategoryTypeIncome)
	if err != nil {
		logger.Log.Errorw("failed to resolve transfer-in category", "userID", userID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}

	fromBalance, err = s.balances.AdjustBalance(ctx, userID, fromWalletID, amount.Neg(), !s.allowOverdraft)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The wallet exists (loaded above), so the guard rejected the debit.
			logger.Log.Warnw("transfer rejected, insufficient funds", "userID", userID, "walletID", fromWalletID, "amount", amount)
			return decimal.Zero, decimal.Zero, ErrInsufficientFunds
		}
		logger.Log.Errorw("failed to debit source wallet", "userID", userID, "walletID", fromWalletID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}

	toBalance, err = s.balances.AdjustBalance(ctx, userID, toWalletID, amount, false)
	if err != nil {
		logger.Log.Errorw("failed to credit destination wallet", "userID", userID, "walletID", toWalletID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}

	transferID := uuid.New()

	out := &models.TransactionDB{
		TransactionID:   uuid.New(),
		UserID:          userID,
		WalletID:        fromWalletID,
		CategoryID:      outCategoryID,
		Type:            models.TransactionTypeExpense,
		Amount:          amount,
		TransactionDate: date,
		Description:     description,
		TransferID:      &transferID,
	}
	if err := s.store.Save(ctx, out); err != nil {
		logger.Log.Errorw("failed to save transfer debit", "userID", userID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}

	in := &models.TransactionDB{
		TransactionID:   uuid.New(),
		UserID:          userID,
		WalletID:        toWalletID,
		CategoryID:      inCategoryID,
		Type:            models.TransactionTypeIncome,
		Amount:          amount,
		TransactionDate: date,
		Description:     description,
		TransferID:      &transferID,
	}
	if err := s.store.Save(ctx, in); err != nil {
		logger.Log.Errorw("failed to save transfer credit", "userID", userID, "error", err)
		return decimal.Zero, decimal.Zero, err
	}

	s.publishEvent(ctx, models.OperationTransfer, out)
	s.invalidateStats(ctx, userID)

	return fromBalance, toBalance, nil
}
