package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// TransactionListTokener defines only the methods needed by this handler.
type TransactionListTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// TransactionListReader defines the interface that the service must implement.
type TransactionListReader interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.TransactionWithNames, error)
}

// TransactionListResponse represents the list of a user's transactions
// swagger:model TransactionListResponse
type TransactionListResponse struct {
	// Transactions of the user, newest first
	Transactions []models.TransactionWithNames `json:"transactions"`
}

// TransactionListErrorResponse represents an error response for listing transactions
// swagger:model TransactionListErrorResponse
type TransactionListErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewTransactionListHandler returns an HTTP handler for listing transactions.
// @Summary List transactions
// @Description Returns all transactions of the authenticated user with wallet and category names, newest first.
// @Tags transactions
// @Produce json
// @Success 200 {object} handlers.TransactionListResponse "Transactions returned"
// @Failure 401 {object} handlers.TransactionListErrorResponse "Unauthorized"
// @Router /transactions [get]
// @Security BearerAuth
func NewTransactionListHandler(
	svc TransactionListReader,
	tokenGetter TransactionListTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionListErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransactionListErrorResponse{Error: "Unauthorized"})
			return
		}

		transactions, err := svc.List(ctx, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list transactions", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(TransactionListErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransactionListResponse{Transactions: transactions})
	}
}
