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

// CategoryCreateTokener defines only the methods needed by this handler.
type CategoryCreateTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// CategoryCreator defines the interface that the service must implement.
type CategoryCreator interface {
	Create(ctx context.Context, userID uuid.UUID, name, categoryType string) (uuid.UUID, error)
}

// CategoryCreateRequest represents the JSON body for creating a category
// swagger:model CategoryCreateRequest
type CategoryCreateRequest struct {
	// Category name, unique per user
	// required: true
	// default: Groceries
	Name string `json:"name"`

	// Category type: income or expense
	// required: true
	// default: expense
	Type string `json:"type"`
}

// CategoryCreateResponse represents a successful category creation response
// swagger:model CategoryCreateResponse
type CategoryCreateResponse struct {
	// Identifier of the created category
	CategoryID string `json:"category_id"`

	// Success message
	// default: Category created successfully
	Message string `json:"message"`
}

// CategoryCreateErrorResponse represents an error response for category creation
// swagger:model CategoryCreateErrorResponse
type CategoryCreateErrorResponse struct {
	// Error message
	// default: Category already exists
	Error string `json:"error"`
}

// NewCategoryCreateHandler returns an HTTP handler for creating a category.
// @Summary Create a category
// @Description Creates an income or expense category. Names are unique per user.
// @Tags categories
// @Accept json
// @Produce json
// @Param request body handlers.CategoryCreateRequest true "Category Create Request"
// @Success 201 {object} handlers.CategoryCreateResponse "Category created successfully"
// @Failure 400 {object} handlers.CategoryCreateErrorResponse "Invalid request / category already exists"
// @Failure 401 {object} handlers.CategoryCreateErrorResponse "Unauthorized"
// @Router /categories [post]
// @Security BearerAuth
func NewCategoryCreateHandler(
	svc CategoryCreator,
	tokenGetter CategoryCreateTokener,
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
			json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Unauthorized"})
			return
		}

		claims, err := tokenGetter.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to get claims from token", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Unauthorized"})
			return
		}

		var req CategoryCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode category create request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Invalid request body"})
			return
		}

		if req.Name == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Invalid category name or type"})
			return
		}
		if _, ok := validTypes[req.Type]; !ok {
			logger.Log.Warnw("invalid category type", "type", req.Type)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Invalid category name or type"})
			return
		}

		categoryID, err := svc.Create(ctx, claims.UserID, req.Name, req.Type)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrCategoryAlreadyExists):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Category already exists"})
			default:
				logger.Log.Errorw("failed to create category", "userID", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(CategoryCreateErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CategoryCreateResponse{
			CategoryID: categoryID.String(),
			Message:    "Category created successfully",
		})
	}
}
