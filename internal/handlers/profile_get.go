package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
	"github.com/dompetku/dompetku/internal/services"
)

// ProfileGetTokener defines only the methods needed by this handler.
type ProfileGetTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// ProfileGetter defines the interface that the service must implement.
type ProfileGetter interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// ProfileGetErrorResponse represents an error response for reading a profile
// swagger:model ProfileGetErrorResponse
type ProfileGetErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewProfileGetHandler returns an HTTP handler for reading the user profile.
// @Summary Get profile
// @Description Returns the authenticated user's profile.
// @Tags profile
// @Produce json
// @Success 200 {object} models.UserDB "Profile returned"
// @Failure 401 {object} handlers.ProfileGetErrorResponse "Unauthorized"
// @Router /profile [get]
// @Security BearerAuth
func NewProfileGetHandler(
	svc ProfileGetter,
	tokenGetter ProfileGetTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileGetErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileGetErrorResponse{Error: "Unauthorized"})
			return
		}

		user, err := svc.GetProfile(ctx, claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProfileGetErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to get profile", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProfileGetErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(user)
	}
}
