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

// CategoryUpdateTokener defines only the methods needed by this handler.
type CategoryUpdateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// CategoryUpdater defines the interface that the service must implement.
type CategoryUpdater interface {
	Update(ctx context.Context, userID, categoryID uuid.UUID, name, categoryType string) error
}

// CategoryUpdateRequest represents the JSON body for updating a category
// swagger:model CategoryUpdateRequest
type CategoryUpdateRequest struct {
	// Category name, unique per user
	// required: true
	// default: Groceries
	Name string `json:"name"`

	// Category type: income or expense
	// required: true
	// default: expense
	Type string `json:"type"`
}

// CategoryUpdateResponse represents a successful category update response
// swagger:model CategoryUpdateResponse
type CategoryUpdateResponse struct {
	// Success message
	// default: Category updated successfully
	Message string `json:"message"`
}

// CategoryUpdateErrorResponse represents an error response for category update
// swagger:model CategoryUpdateErrorResponse
type CategoryUpdateErrorResponse struct {
	// Error message
	// default: Category not found
	Error string `json:"error"`
}

// NewCategoryUpdateHandler returns an HTTP handler for updating a category.
// @Summary Update a category
// @Description Overwrites the category's name and type.
// @Tags categories
// @Accept json
// @Produce json
// @Param categoryID path string true "Category ID"
// @Param request body handlers.CategoryUpdateRequest true "Category Update Request"
// @Success 200 {object} handlers.CategoryUpdateResponse "Category updated successfully"
// @Failure 400 {object} handlers.CategoryUpdateErrorResponse "Invalid request"
// @Failure 401 {object} handlers.CategoryUpdateErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.CategoryUpdateErrorResponse "Category not found"
// @Router /categories/{categoryID} [put]
// @Security BearerAuth
func NewCategoryUpdateHandler(
	svc CategoryUpdater,
	tokenGetter CategoryUpdateTokener,
) http.HandlerFunc {
	validTypes := map[string]struct{}{
		models.CategoryTypeIncome:  {},
		models.CategoryTypeExpense: {},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("failed to get token from request", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Unauthorized"})
			return
		}

		categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Invalid category id"})
			return
		}

		var req CategoryUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode category update request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Invalid category name or type"})
			return
		}
		if _, ok := validTypes[req.Type]; !ok {
			logger.Log.Warnw("invalid category type", "type", req.Type)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Invalid category name or type"})
			return
		}

		if err := svc.Update(ctx, claims.UserID, categoryID, req.Name, req.Type); err != nil {
			switch {
			case errors.Is(err, services.ErrCategoryNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Category not found"})
			default:
				logger.Log.Errorw("failed to update category", "userID", claims.UserID, "categoryID", categoryID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CategoryUpdateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(CategoryUpdateResponse{Message: "Category updated successfully"})
	}
}
