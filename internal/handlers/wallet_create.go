package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// WalletCreateTokener defines only the methods needed by this handler.
type WalletCreateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// WalletCreator defines the interface that the service must implement.
type WalletCreator interface {
	Create(ctx context.Context, userID uuid.UUID, name, walletType string, balance decimal.Decimal) (uuid.UUID, error)
}

// WalletCreateRequest represents the JSON body for creating a wallet
// swagger:model WalletCreateRequest
type WalletCreateRequest struct {
	// Wallet name
	// required: true
	// default: BCA Savings
	Name string `json:"name"`

	// Wallet type: cash, bank, ewallet or other
	// required: true
	// default: bank
	Type string `json:"type"`

	// Initial balance
	// default: 0
	Balance decimal.Decimal `json:"balance"`
}

// WalletCreateResponse represents a successful wallet creation response
// swagger:model WalletCreateResponse
type WalletCreateResponse struct {
	// Identifier of the created wallet
	WalletID string `json:"wallet_id"`

	// Success message
	// default: Wallet created successfully
	Message string `json:"message"`
}

// WalletCreateErrorResponse represents an error response for wallet creation
// swagger:model WalletCreateErrorResponse
type WalletCreateErrorResponse struct {
	// Error message
	// default: Invalid wallet name or type
	Error string `json:"error"`
}

// NewWalletCreateHandler returns an HTTP handler for creating a wallet.
// @Summary Create a wallet
// @Description Creates a wallet with a name, a type and an optional initial balance.
// @Tags wallets
// @Accept json
// @Produce json
// @Param request body handlers.WalletCreateRequest true "Wallet Create Request"
// @Success 201 {object} handlers.WalletCreateResponse "Wallet created successfully"
// @Failure 400 {object} handlers.WalletCreateErrorResponse "Invalid wallet name or type"
// @Failure 401 {object} handlers.WalletCreateErrorResponse "Unauthorized"
// @Router /wallets [post]
// @Security BearerAuth
func NewWalletCreateHandler(
	svc WalletCreator,
	tokenGetter WalletCreateTokener,
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
			json.NewEncoder(w).Encode(WalletCreateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(WalletCreateErrorResponse{Error: "Unauthorized"})
			return
		}

		var req WalletCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode wallet create request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletCreateErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletCreateErrorResponse{Error: "Invalid wallet name or type"})
			return
		}
		if _, ok := validTypes[req.Type]; !ok {
			logger.Log.Warnw("invalid wallet type", "type", req.Type)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(WalletCreateErrorResponse{Error: "Invalid wallet name or type"})
			return
		}

		walletID, err := svc.Create(ctx, claims.UserID, req.Name, req.Type, req.Balance)
		if err != nil {
			logger.Log.Errorw("failed to create wallet", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(WalletCreateErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(WalletCreateResponse{
			WalletID: walletID.String(),
			Message:  "Wallet created successfully",
		})
	}
}
