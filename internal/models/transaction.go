package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// TransactionDB represents a transaction row in the database
type TransactionDB struct {
	TransactionID   uuid.UUID       `json:"transaction_id" db:"transaction_id"`     // Unique transaction identifier
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`                   // Identifier of the transaction's owner
	WalletID        uuid.UUID       `json:"wallet_id" db:"wallet_id"`               // Wallet the transaction is posted to
	CategoryID      uuid.UUID       `json:"category_id" db:"category_id"`           // Category the transaction is labeled with
	Type            string          `json:"type" db:"type"`                         // income or expense
	Amount          decimal.Decimal `json:"amount" db:"amount"`                     // Positive amount
	TransactionDate time.Time       `json:"transaction_date" db:"transaction_date"` // Calendar date of the event
	Description     *string         `json:"description,omitempty" db:"description"` // Optional free-form description
	TransferID      *uuid.UUID      `json:"transfer_id,omitempty" db:"transfer_id"` // Set on the two legs of a wallet transfer
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`             // Timestamp when the transaction was recorded
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`             // Timestamp of the last transaction update
}

// SignedAmount returns +Amount for income and -Amount for expense.
func (t *TransactionDB) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionWithNames is a transaction row joined with its wallet and category names.
type TransactionWithNames struct {
	TransactionDB
	WalletName   string `json:"wallet_name" db:"wallet_name"`     // Name of the wallet the transaction is posted to
	CategoryName string `json:"category_name" db:"category_name"` // Name of the transaction's category
}
