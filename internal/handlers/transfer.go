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
	"github.com/dompetku/dompetku/internal/services"
)

// TransferTokener defines only the methods needed by this handler.
type TransferTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// Transferer defines the interface that the service must implement.
type Transferer interface {
	Transfer(ctx context.Context, userID, fromWalletID, toWalletID uuid.UUID, amount decimal.Decimal, date time.Time, description *string) (fromBalance, toBalance decimal.Decimal, err error)
}

// TransferRequest represents the JSON body for a wallet-to-wallet transfer
// swagger:model TransferRequest
type TransferRequest struct {
	// Source wallet id
	// required: true
	FromWalletID string `json:"from_wallet_id"`

	// Destination wallet id
	// required: true
	ToWalletID string `json:"to_wallet_id"`

	// Amount to move
	// required: true
	// default: 100.00
	Amount decimal.Decimal `json:"amount"`

	// Transfer date, YYYY-MM-DD. Defaults to today.
	Date string `json:"date,omitempty"`

	// Optional description
	Description *string `json:"description,omitempty"`
}

// TransferResponse represents a successful transfer response
// swagger:model TransferResponse
type TransferResponse struct {
	// Success message
	// default: Transfer completed successfully
	Message string `json:"message"`

	// New balance of the source wallet
	FromBalance decimal.Decimal `json:"from_balance"`

	// New balance of the destination wallet
	ToBalance decimal.Decimal `json:"to_balance"`
}

// TransferErrorResponse represents an error response for a transfer
// swagger:model TransferErrorResponse
type TransferErrorResponse struct {
	// Error message
	// default: Insufficient funds
	Error string `json:"error"`
}

// NewTransferHandler returns an HTTP handler for moving funds between wallets.
// @Summary Transfer between wallets
// @Description Moves an amount between two wallets of the same user as a linked pair of transactions. The pair leaves the sum of wallet balances unchanged.
// @Tags wallets
// @Accept json
// @Produce json
// @Param request body handlers.TransferRequest true "Transfer Request"
// @Success 200 {object} handlers.TransferResponse "Transfer completed successfully"
// @Failure 400 {object} handlers.TransferErrorResponse "Invalid request"
// @Failure 401 {object} handlers.TransferErrorResponse "Unauthorized"
// @Failure 402 {object} handlers.TransferErrorResponse "Insufficient funds"
// @Failure 404 {object} handlers.TransferErrorResponse "Wallet not found"
// @Router /wallets/transfer [post]
// @Security BearerAuth
func NewTransferHandler(
	svc Transferer,
	tokenGetter TransferTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Unauthorized"})
			return
		}

		var req TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode transfer request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid request body"})
			return
		}

		fromWalletID, err := uuid.Parse(req.FromWalletID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid wallet id"})
			return
		}
		toWalletID, err := uuid.Parse(req.ToWalletID)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid wallet id"})
			return
		}

		if !req.Amount.IsPositive() {
			logger.Log.Warnw("invalid transfer amount", "amount", req.Amount)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Amount must be positive"})
			return
		}

		date := time.Now().UTC()
		if req.Date != "" {
			date, err = time.Parse(dateLayout, req.Date)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
				return
			}
		}

		fromBalance, toBalance, err := svc.Transfer(ctx, claims.UserID, fromWalletID, toWalletID, req.Amount, date, req.Description)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSameWallet):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Source and destination wallets must differ"})
			case errors.Is(err, services.ErrWalletNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Wallet not found"})
			case errors.Is(err, services.ErrInsufficientFunds):
				w.WriteHeader(http.StatusPaymentRequired)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Insufficient funds"})
			default:
				logger.Log.Errorw("failed to transfer", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TransferErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TransferResponse{
			Message:     "Transfer completed successfully",
			FromBalance: fromBalance,
			ToBalance:   toBalance,
		})
	}
}
