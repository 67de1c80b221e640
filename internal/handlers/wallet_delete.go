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

// WalletDeleteTokener defines only the methods needed by this handler.
type WalletDeleteTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// WalletDeleter defines the interface that the service must implement.
type WalletDeleter interface {
	Delete(ctx context.Context, userID, walletID uuid.UUID) error
}

// WalletDeleteResponse represents a successful wallet deletion response
// swagger:model WalletDeleteResponse
type WalletDeleteResponse struct {
	// Success message
	// default: Wallet deleted successfully
	Message string `json:"message"`
}

// WalletDeleteErrorResponse represents an error response for wallet deletion
// swagger:model WalletDeleteErrorResponse
type WalletDeleteErrorResponse struct {
	// Error message
	// default: Wallet has related transactions
	Error string `json:"error"`
}

// NewWalletDeleteHandler returns an HTTP handler for deleting a wallet.
// @Summary Delete a wallet
// @Description Deletes a wallet. Refused while transactions still reference the wallet.
// @Tags wallets
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Success 200 {object} handlers.WalletDeleteResponse "Wallet deleted successfully"
// @Failure 401 {object} handlers.WalletDeleteErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.WalletDeleteErrorResponse "Wallet not found"
// @Failure 409 {object} handlers.WalletDeleteErrorResponse "Wallet has related transactions"
// @Router /wallets/{walletID} [delete]
// @Security BearerAuth
func NewWalletDeleteHandler(
	svc WalletDeleter,
	tokenGetter WalletDeleteTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletDeleteErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletDeleteErrorResponse{Error: "Unauthorized"})
			return
		}

		walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletDeleteErrorResponse{Error: "Invalid wallet id"})
			return
		}

		if err := svc.Delete(ctx, claims.UserID, walletID); err != nil {
			switch {
			case errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(WalletDeleteErrorResponse{Error: "Wallet not found"})
			case errors.Is(err, services.ErrWalletHasTransactions):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(WalletDeleteErrorResponse{Error: "Wallet has related transactions"})
			default:
				logger.Log.Errorw("failed to delete wallet", "userID", claims.UserID, "walletID", walletID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(WalletDeleteErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(WalletDeleteResponse{Message: "Wallet deleted successfully"})
	}
}
