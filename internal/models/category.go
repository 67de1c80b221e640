package models

import (
	"time"

	"github.com/google/uuid"
)

// Category types
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// Built-in category names used for the two legs of a wallet transfer.
const (
	TransferOutCategory = "Transfer Out"
	TransferInCategory  = "Transfer In"
)

// CategoryDB represents a category row in the database
type CategoryDB struct {
	CategoryID uuid.UUID `json:"category_id" db:"category_id"` // Unique category identifier
	UserID     uuid.UUID `json:"user_id" db:"user_id"`         // Identifier of the category's owner
	Name       string    `json:"name" db:"name"`               // Display name, unique per user
	Type       string    `json:"type" db:"type"`               // income or expense
	CreatedAt  time.Time `json:"created_at" db:"created_at"`   // Timestamp when the category was created
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`   // Timestamp of the last category update
}
