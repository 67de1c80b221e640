package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/services"
)

// ProfileUpdateTokener defines only the methods needed by this handler.
type ProfileUpdateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// ProfileUpdater defines the interface that the service must implement.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string, jobTitle *string, incomeEstimate *decimal.Decimal) error
}

// ProfileUpdateRequest represents the JSON body for updating the profile
// swagger:model ProfileUpdateRequest
type ProfileUpdateRequest struct {
	// Display name
	// required: true
	// default: John Doe
	Name string `json:"name"`

	// Optional job title
	JobTitle *string `json:"job_title,omitempty"`

	// Optional monthly income estimate
	IncomeEstimate *decimal.Decimal `json:"income_estimate,omitempty"`
}

// ProfileUpdateResponse represents a successful profile update response
// swagger:model ProfileUpdateResponse
type ProfileUpdateResponse struct {
	// Success message
	// default: Profile updated successfully
	Message string `json:"message"`
}

// ProfileUpdateErrorResponse represents an error response for profile update
// swagger:model ProfileUpdateErrorResponse
type ProfileUpdateErrorResponse struct {
	// Error message
	// default: Invalid request
	Error string `json:"error"`
}

// NewProfileUpdateHandler returns an HTTP handler for updating the user profile.
// @Summary Update profile
// @Description Overwrites the authenticated user's name, job title and income estimate.
// @Tags profile
// @Accept json
// @Produce json
// @Param request body handlers.ProfileUpdateRequest true "Profile Update Request"
// @Success 200 {object} handlers.ProfileUpdateResponse "Profile updated successfully"
// @Failure 400 {object} handlers.ProfileUpdateErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ProfileUpdateErrorResponse "Unauthorized"
// @Router /profile [put]
// @Security BearerAuth
func NewProfileUpdateHandler(
	svc ProfileUpdater,
	tokenGetter ProfileUpdateTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ProfileUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		var req ProfileUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode profile update request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ProfileUpdateErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ProfileUpdateErrorResponse{Error: "Name is required"})
			return
		}

		if err := svc.UpdateProfile(ctx, claims.UserID, req.Name, req.JobTitle, req.IncomeEstimate); err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProfileUpdateErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to update profile", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProfileUpdateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProfileUpdateResponse{Message: "Profile updated successfully"})
	}
}
