package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/services"
)

// TransactionDeleteTokener defines only the methods needed by this handler.
type TransactionDeleteTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionDeleter defines the interface that the service must implement.
type TransactionDeleter interface {
	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error
}

// TransactionDeleteResponse represents a successful transaction deletion response
// swagger:model TransactionDeleteResponse
type TransactionDeleteResponse struct {
	// Success message
	// default: Transaction deleted successfully
	Message string `json:"message"`
}

// TransactionDeleteErrorResponse represents an error response for transaction deletion
// swagger:model TransactionDeleteErrorResponse
type TransactionDeleteErrorResponse struct {
	// Error message
	// default: Transaction not found
	Error string `json:"error"`
}

// NewTransactionDeleteHandler returns an HTTP handler for deleting a transaction.
// @Summary Delete a transaction
// @Description Deletes a transaction and atomically reverses its effect on the wallet balance.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} handlers.TransactionDeleteResponse "Transaction deleted successfully"
// @Failure 401 {object} handlers.TransactionDeleteErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.TransactionDeleteErrorResponse "Transaction not found"
// @Router /transactions/{transactionID} [delete]
// @Security BearerAuth
func NewTransactionDeleteHandler(
	svc TransactionDeleter,
	tokenGetter TransactionDeleteTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionDeleteErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionDeleteErrorResponse{Error: "Unauthorized"})
			return
		}

		transactionID, err := uuid.Parse(chi.URLParam(r, "transactionID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransactionDeleteErrorResponse{Error: "Invalid transaction id"})
			return
		}

		if err := svc.DeleteTransaction(ctx, claims.UserID, transactionID); err != nil {
			switch {
			case errors.Is(err, services.ErrTransactionNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransactionDeleteErrorResponse{Error: "Transaction not found"})
			default:
				logger.Log.Errorw("failed to delete transaction", "userID", claims.UserID, "transactionID", transactionID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransactionDeleteErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionDeleteResponse{Message: "Transaction deleted successfully"})
	}
}
