package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
	"github.com/dompetku/dompetku/internal/services"
)

// TransactionUpdateTokener defines only the methods needed by this handler.
type TransactionUpdateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionUpdater defines the interface that the service must implement.
type TransactionUpdater interface {
	UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, in services.TransactionInput) (*models.TransactionDB, error)
}

// TransactionUpdateRequest represents the JSON body for updating a transaction
// swagger:model TransactionUpdateRequest
type TransactionUpdateRequest struct {
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

// TransactionUpdateResponse represents a successful transaction update response
// swagger:model TransactionUpdateResponse
type TransactionUpdateResponse struct {
	// The updated transaction
	Transaction models.TransactionDB `json:"transaction"`

	// Success message
	// default: Transaction updated successfully
	Message string `json:"message"`
}

// TransactionUpdateErrorResponse represents an error response for transaction update
// swagger:model TransactionUpdateErrorResponse
type TransactionUpdateErrorResponse struct {
	// Error message
	// default: Transaction not found
	Error string `json:"error"`
}

// NewTransactionUpdateHandler returns an HTTP handler for updating a transaction.
// @Summary Update a transaction
// @Description Overwrites a transaction. The old amount is reversed on the old wallet and the new amount applied to the new wallet, atomically.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param request body handlers.TransactionUpdateRequest true "Transaction Update Request"
// @Success 200 {object} handlers.TransactionUpdateResponse "Transaction updated successfully"
// @Failure 400 {object} handlers.TransactionUpdateErrorResponse "Invalid request"
// @Failure 401 {object} handlers.TransactionUpdateErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TransactionUpdateErrorResponse "Transaction not found"
// @Router /transactions/{transactionID} [put]
// @Security BearerAuth
func NewTransactionUpdateHandler(
	svc TransactionUpdater,
	tokenGetter TransactionUpdateTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Invalid transaction id"})
			return
		}

		var req TransactionUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode transaction update request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Invalid request body"})
			return
		}

		walletID, err := uuid.Parse(req.WalletID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Invalid wallet id"})
			return
		}
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Invalid category id"})
			return
		}

		date, msg := validateTransactionRequest(req.Type, req.Amount, req.Date)
		if msg != "" {
			logger.Log.Warnw("invalid transaction request", "type", req.Type, "amount", req.Amount, "date", req.Date)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: msg})
			return
		}

		txn, err := svc.UpdateTransaction(ctx, claims.UserID, transactionID, services.TransactionInput{
			WalletID:    walletID,
			CategoryID:  categoryID,
			Type:        req.Type,
			Amount:      req.Amount,
			Date:        date,
			Description: req.Description,
		})
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTransactionNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Transaction not found"})
			case errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Wallet not found"})
			case errors.Is(err, services.ErrCategoryNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Category not found"})
			default:
				logger.Log.Errorw("failed to update transaction", "userID", claims.UserID, "transactionID", transactionID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionUpdateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionUpdateResponse{
			Transaction: *txn,
			Message:     "Transaction updated successfully",
		})
	}
}
