package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dompetku/dompetku/internal/jwt"
	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/services"
)

// PasswordTokener defines only the methods needed by this handler.
type PasswordTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// PasswordChanger defines the interface that the service must implement.
type PasswordChanger interface {
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
}

// PasswordChangeRequest represents the JSON body for changing the password
// swagger:model PasswordChangeRequest
type PasswordChangeRequest struct {
	// Current password
	// required: true
	OldPassword string `json:"old_password"`

	// New password
	// required: true
	NewPassword string `json:"new_password"`
}

// PasswordChangeResponse represents a successful password change response
// swagger:model PasswordChangeResponse
type PasswordChangeResponse struct {
	// Success message
	// default: Password changed successfully
	Message string `json:"message"`
}

// PasswordChangeErrorResponse represents an error response for password change
// swagger:model PasswordChangeErrorResponse
type PasswordChangeErrorResponse struct {
	// Error message
	// default: Invalid current password
	Error string `json:"error"`
}

// NewPasswordChangeHandler returns an HTTP handler for changing the password.
// @Summary Change password
// @Description Verifies the current password and replaces it with a new one.
// @Tags profile
// @Accept json
// @Produce json
// @Param request body handlers.PasswordChangeRequest true "Password Change Request"
// @Success 200 {object} handlers.PasswordChangeResponse "Password changed successfully"
// @Failure 400 {object} handlers.PasswordChangeErrorResponse "Invalid request"
// @Failure 401 {object} handlers.PasswordChangeErrorResponse "Unauthorized / invalid current password"
// @Router /profile/password [put]
// @Security BearerAuth
func NewPasswordChangeHandler(
	svc PasswordChanger,
	tokenGetter PasswordTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "Unauthorized"})
			return
		}

		var req PasswordChangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode password change request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.OldPassword == "" || req.NewPassword == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "Old and new passwords are required"})
			return
		}

		if err := svc.ChangePassword(ctx, claims.UserID, req.OldPassword, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "Invalid current password"})
			case errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "User not found"})
			default:
				logger.Log.Errorw("failed to change password", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(PasswordChangeErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(PasswordChangeResponse{Message: "Password changed successfully"})
	}
}
