package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supported wallet types
const (
	WalletTypeCash    = "cash"
	WalletTypeBank    = "bank"
	WalletTypeEWallet = "ewallet"
	WalletTypeOther   = "other"
)

// WalletDB represents a wallet row in the database
type WalletDB struct {
	WalletID  uuid.UUID       `json:"wallet_id" db:"wallet_id"`   // Unique wallet identifier
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`       // Identifier of the wallet's owner
	Name      string          `json:"name" db:"name"`             // Display name (e.g. "BCA Savings")
	Type      string          `json:"type" db:"type"`             // Wallet type (cash, bank, ewallet, other)
	Balance   decimal.Decimal `json:"balance" db:"balance"`       // Cached balance, kept equal to initial balance plus signed transaction sum
	IsActive  bool            `json:"is_active" db:"is_active"`   // Inactive wallets are excluded from total assets
	CreatedAt time.Time       `json:"created_at" db:"created_at"` // Timestamp when the wallet was created
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"` // Timestamp of the last wallet update
}
