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

// CategoryDeleteTokener defines only the methods needed by this handler.
type CategoryDeleteTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// CategoryDeleter defines the interface that the service must implement.
type CategoryDeleter interface {
	Delete(ctx context.Context, userID, categoryID uuid.UUID) error
}

// CategoryDeleteResponse represents a successful category deletion response
// swagger:model CategoryDeleteResponse
type CategoryDeleteResponse struct {
	// Success message
	// default: Category deleted successfully
	Message string `json:"message"`
}

// CategoryDeleteErrorResponse represents an error response for category deletion
// swagger:model CategoryDeleteErrorResponse
type CategoryDeleteErrorResponse struct {
	// Error message
	// default: Category has related transactions
	Error string `json:"error"`
}

// NewCategoryDeleteHandler returns an HTTP handler for deleting a category.
// @Summary Delete a category
// @Description Deletes a category. Refused while transactions still reference the category.
// @Tags categories
// @Produce json
// @Param categoryID path string true "Category ID"
// @Success 200 {object} handlers.CategoryDeleteResponse "Category deleted successfully"
// @Failure 401 {object} handlers.CategoryDeleteErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.CategoryDeleteErrorResponse "Category not found"
// @Failure 409 {object} handlers.CategoryDeleteErrorResponse "Category has related transactions"
// @Router /categories/{categoryID} [delete]
// @Security BearerAuth
func NewCategoryDeleteHandler(
	svc CategoryDeleter,
	tokenGetter CategoryDeleteTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryDeleteErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryDeleteErrorResponse{Error: "Unauthorized"})
			return
		}

		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryDeleteErrorResponse{Error: "Invalid category id"})
			return
		}

		if err := svc.Delete(ctx, claims.UserID, categoryID); err != nil {
			switch {
			case errors.Is(err, services.ErrCategoryNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(CategoryDeleteErrorResponse{Error: "Category not found"})
			case errors.Is(err, services.ErrCategoryInUse):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(CategoryDeleteErrorResponse{Error: "Category has related transactions"})
			default:
				logger.Log.Errorw("failed to delete category", "userID", claims.UserID, "categoryID", categoryID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CategoryDeleteErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CategoryDeleteResponse{Message: "Category deleted successfully"})
	}
}
