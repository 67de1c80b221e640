package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID         uuid.UUID        `json:"user_id" db:"user_id"`                   // Primary key
	Name           string           `json:"name" db:"name"`                         // Display name
	Email          string           `json:"email" db:"email"`                       // Unique email, used for login
	PasswordHash   string           `json:"-" db:"password_hash"`                   // Bcrypt hash, never serialized
	JobTitle       *string          `json:"job_title,omitempty" db:"job_title"`     // Optional profile field
	IncomeEstimate *decimal.Decimal `json:"income_estimate,omitempty" db:"income_estimate"` // Optional monthly income estimate
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`             // Creation timestamp
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`             // Last update timestamp
}
