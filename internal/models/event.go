package models

import "github.com/shopspring/decimal"

// Ledger event operations
const (
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationTransfer = "transfer"
)

// LedgerEvent represents a ledger mutation published to Kafka.
type LedgerEvent struct {
	EventID       string          `json:"event_id"`       // EventID is a unique identifier for the event.
	UserID        string          `json:"user_id"`        // UserID is the identifier of the user who performed the mutation.
	TransactionID string          `json:"transaction_id"` // TransactionID is the identifier of the affected transaction.
	Operation     string          `json:"operation"`      // Operation is one of create, update, delete, transfer.
	Amount        decimal.Decimal `json:"amount"`         // Amount is the positive amount involved in the mutation.
	Timestamp     int64           `json:"timestamp"`      // Timestamp is the Unix timestamp (in seconds) of the mutation.
}
