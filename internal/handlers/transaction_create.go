package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
	"github.com/dompetku/dompetku/internal/services"
)

// dateLayout is the wire format for transaction dates.
const dateLayout = "2006-01-02"

// TransactionCreateTokener defines only the methods needed by this handler.
type TransactionCreateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionCreator defines the interface that the service must implement.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, in services.TransactionInput) (*models.TransactionDB, decimal.Decimal, error)
}

// TransactionCreateRequest represents the JSON body for recording a transaction
// swagger:model TransactionCreateRequest
type TransactionCreateRequest struct {
	// Wallet the transaction is posted to
	// required: true
	WalletID string `json:"wallet_id"`

	// Category the transaction is labeled with
	// required: true
	CategoryID string `json:"category_id"`

	// Transaction type: income or expense
	// required: true
	// default: expense
	Type string `json:"type"`

	// Positive amount
	// required: true
	// default: 50.00
	Amount decimal.Decimal `json:"amount"`

	// Transaction date, YYYY-MM-DD
	// required: true
	Date string `json:"date"`

	// Optional description
	Description *string `json:"description,omitempty"`
}

// TransactionCreateResponse represents a successful transaction creation response
// swagger:model TransactionCreateResponse
type TransactionCreateResponse struct {
	// The stored transaction
	Transaction models.TransactionDB `json:"transaction"`

	// New balance of the wallet
	NewBalance decimal.Decimal `json:"new_balance"`

	// Success message
	// default: Transaction recorded successfully
	Message string `json:"message"`
}

// TransactionCreateErrorResponse represents an error response for transaction creation
// swagger:model TransactionCreateErrorResponse
type TransactionCreateErrorResponse struct {
	// Error message
	// default: Invalid amount or type
	Error string `json:"error"`
}

// validateTransactionRequest checks the common fields of a transaction
// create or update request. Returns a non-empty message on failure.
func validateTransactionRequest(txType string, amount decimal.Decimal, date string) (time.Time, string) {
	if txType != models.TransactionTypeIncome && txType != models.TransactionTypeExpense {
		return time.Time{}, "Invalid amount or type"
	}
	if !amount.IsPositive() {
		return time.Time{}, "Invalid amount or type"
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, "Invalid date, expected YYYY-MM-DD"
	}
	return parsed, ""
}

// NewTransactionCreateHandler returns an HTTP handler for recording a transaction.
// @Summary Record a transaction
// @Description Inserts a transaction and atomically applies its amount to the wallet balance: income adds, expense subtracts.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body handlers.TransactionCreateRequest true "Transaction Create Request"
// @Success 201 {object} handlers.TransactionCreateResponse "Transaction recorded successfully"
// @Failure 400 {object} handlers.TransactionCreateErrorResponse "Invalid amount or type"
// @Failure 401 {object} handlers.TransactionCreateErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TransactionCreateErrorResponse "Wallet or category not found"
// @Router /transactions [post]
// @Security BearerAuth
func NewTransactionCreateHandler(
	svc TransactionCreator,
	tokenGetter TransactionCreateTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Unauthorized"})
			return
		}

		var req TransactionCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode transaction create request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Invalid request body"})
			return
		}

		walletID, err := uuid.Parse(req.WalletID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Invalid wallet id"})
			return
		}
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Invalid category id"})
			return
		}

		date, msg := validateTransactionRequest(req.Type, req.Amount, req.Date)
		if msg != "" {
			logger.Log.Warnw("invalid transaction request", "type", req.Type, "amount", req.Amount, "date", req.Date)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: msg})
			return
		}

		txn, newBalance, err := svc.CreateTransaction(ctx, claims.UserID, services.TransactionInput{
			WalletID:    walletID,
			CategoryID:  categoryID,
			Type:        req.Type,
			Amount:      req.Amount,
			Date:        date,
			Description: req.Description,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Wallet not found"})
			case errors.Is(err, services.ErrCategoryNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Category not found"})
			default:
				logger.Log.Errorw("failed to record transaction", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionCreateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(TransactionCreateResponse{
			Transaction: *txn,
			NewBalance:  newBalance,
			Message:     "Transaction recorded successfully",
		})
	}
}
