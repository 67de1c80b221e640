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

// CategoryListTokener defines only the methods needed by this handler.
type CategoryListTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// CategoryListReader defines the interface that the service must implement.
type CategoryListReader interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error)
}

// CategoryListResponse represents the list of a user's categories
// swagger:model CategoryListResponse
type CategoryListResponse struct {
	// Categories owned by the user
	Categories []models.CategoryDB `json:"categories"`
}

// CategoryListErrorResponse represents an error response for listing categories
// swagger:model CategoryListErrorResponse
type CategoryListErrorResponse struct {
	// Error message
	// default: Unauthorized
	Error string `json:"error"`
}

// NewCategoryListHandler returns an HTTP handler for listing categories.
// @Summary List categories
// @Description Returns all categories of the authenticated user, sorted by name.
// @Tags categories
// @Produce json
// @Success 200 {object} handlers.CategoryListResponse "Categories returned"
// @Failure 401 {object} handlers.CategoryListErrorResponse "Unauthorized"
// @Router /categories [get]
// @Security BearerAuth
func NewCategoryListHandler(
	svc CategoryListReader,
	tokenGetter CategoryListTokener,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryListErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryListErrorResponse{Error: "Unauthorized"})
			return
		}

		categories, err := svc.List(ctx, claims.UserID)
		if err != nil {
			logger.Log.Errorw("failed to list categories", "userID", claims.UserID, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(CategoryListErrorResponse{Error: "Internal server error"})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CategoryListResponse{Categories: categories})
	}
}
