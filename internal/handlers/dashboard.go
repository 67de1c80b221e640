package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// DashboardTokener defines only the methods needed by this handler.
type DashboardTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// DashboardStatsReader defines the interface that the service must implement.
type DashboardStatsReader interface {
	Stats(ctx context.Context, userID uuid.UUID, now time.Time) (*models.DashboardStats, error)
}

// DashboardErrorResponse represents an error response for the dashboard
// swagger:model DashboardErrorResponse
type DashboardErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewDashboardHandler returns an HTTP handler for the dashboard.
// @Summary Get dashboard stats
// @Description Returns total assets across active wallets, income and expense sums for the current month, the savings rate and the five most recent transactions.
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardStats "Dashboard stats returned"
// @Failure 401 {object} handlers.DashboardErrorResponse "Unauthorized"
// @Router /dashboard [get]
// @Security BearerAuth
func NewDashboardHandler(
	svc DashboardStatsReader,
	tokenGetter DashboardTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DashboardErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DashboardErrorResponse{Error: "Unauthorized"})
			return
		}

		stats, err := svc.Stats(ctx, claims.UserID, time.Now())
		if err != nil {
			logger.Log.Errorw("failed to get dashboard stats", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(DashboardErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(stats)
	}
}
