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

// WalletListTokener defines only the methods needed by this handler.
type WalletListTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// WalletListReader defines the interface that the service must implement.
type WalletListReader interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.WalletDB, error)
}

// WalletListResponse represents the list of a user's wallets
// swagger:model WalletListResponse
type WalletListResponse struct {
	// Wallets owned by the user
	Wallets []models.WalletDB `json:"wallets"`
}

// WalletListErrorResponse represents an error response for listing wallets
// swagger:model WalletListErrorResponse
type WalletListErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewWalletListHandler returns an HTTP handler for listing wallets.
// @Summary List wallets
// @Description Returns all wallets of the authenticated user with their current balances.
// @Tags wallets
// @Produce json
// @Success 200 {object} handlers.WalletListResponse "Wallets returned"
// @Failure 401 {object} handlers.WalletListErrorResponse "Unauthorized"
// @Router /wallets [get]
// @Security BearerAuth
func NewWalletListHandler(
	svc WalletListReader,
	tokenGetter WalletListTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletListErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletListErrorResponse{Error: "Unauthorized"})
			return
		}

		wallets, err := svc.List(ctx, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list wallets", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(WalletListErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(WalletListResponse{Wallets: wallets})
	}
}
