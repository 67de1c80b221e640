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
	"github.com/dompetku/dompetku/internal/models"
	"github.com/dompetku/dompetku/internal/services"
)

// WalletUpdateTokener defines only the methods needed by this handler.
type WalletUpdateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// WalletUpdater defines the interface that the service must implement.
type WalletUpdater interface {
	Update(ctx context.Context, userID, walletID uuid.UUID, name, walletType string, isActive bool) error
}

// WalletUpdateRequest represents the JSON body for updating a wallet
// swagger:model WalletUpdateRequest
type WalletUpdateRequest struct {
	// Wallet name
	// required: true
	// default: BCA Savings
	Name string `json:"name"`

	// Wallet type: cash, bank, ewallet or other
	// required: true
	// default: bank
	Type string `json:"type"`

	// Whether the wallet counts toward total assets
	// default: true
	IsActive bool `json:"is_active"`
}

// WalletUpdateResponse represents a successful wallet update response
// swagger:model WalletUpdateResponse
type WalletUpdateResponse struct {
	// Success message
	// default: Wallet updated successfully
	Message string `json:"message"`
}

// WalletUpdateErrorResponse represents an error response for wallet update
// swagger:model WalletUpdateErrorResponse
type WalletUpdateErrorResponse struct {
	// Error message
	// default: Wallet not found
	Error string `json:"error"`
}

// NewWalletUpdateHandler returns an HTTP handler for updating a wallet.
// @Summary Update a wallet
// @Description Overwrites the wallet's name, type and active flag. The balance is maintained by the ledger and cannot be set here.
// @Tags wallets
// @Accept json
// @Produce json
// @Param walletID path string true "Wallet ID"
// @Param request body handlers.WalletUpdateRequest true "Wallet Update Request"
// @Success 200 {object} handlers.WalletUpdateResponse "Wallet updated successfully"
// @Failure 400 {object} handlers.WalletUpdateErrorResponse "Invalid request"
// @Failure 401 {object} handlers.WalletUpdateErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.WalletUpdateErrorResponse "Wallet not found"
// @Router /wallets/{walletID} [put]
// @Security BearerAuth
func NewWalletUpdateHandler(
	svc WalletUpdater,
	tokenGetter WalletUpdateTokener,
) http.HandlerFunc {
	validTypes := map[string]struct{}{
		models.WalletTypeCash:    {},
		models.WalletTypeBank:    {},
		models.WalletTypeEWallet: {},
		models.WalletTypeOther:   {},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		walletID, err := uuid.Parse(chi.URLParam(r, "walletID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Invalid wallet id"})
			return
		}

		var req WalletUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode wallet update request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Invalid wallet name or type"})
			return
		}
		if _, ok := validTypes[req.Type]; !ok {
			logger.Log.Warnw("invalid wallet type", "type", req.Type)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Invalid wallet name or type"})
			return
		}

		if err := svc.Update(ctx, claims.UserID, walletID, req.Name, req.Type, req.IsActive); err != nil {
			switch {
			case errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Wallet not found"})
			default:
				logger.Log.Errorw("failed to update wallet", "userID", claims.UserID, "walletID", walletID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(WalletUpdateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(WalletUpdateResponse{Message: "Wallet updated successfully"})
	}
}
