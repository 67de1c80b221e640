package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

var (
	// ErrCategoryNotFound is returned when a category does not exist or is not owned by the caller.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCategoryInUse is returned when a category cannot be deleted
	// because transactions still reference it.
	ErrCategoryInUse = errors.New("category has related transactions")
	// ErrCategoryAlreadyExists is returned when the user already has a category with the same name.
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

// unique_violation
const pgUniqueViolation = "23505"

// CategoryLister defines category read operations needed by the category service.
type CategoryLister interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error)
}

// CategoryStore defines category write operations needed by the category service.
type CategoryStore interface {
	Save(ctx context.Context, userID uuid.UUID, name, categoryType string) (uuid.UUID, error)
	Update(ctx context.Context, userID, categoryID uuid.UUID, name, categoryType string) error
	Delete(ctx context.Context, userID, categoryID uuid.UUID) error
}

// CategoryService handles category CRUD.
type CategoryService struct {
	reader CategoryLister
	writer CategoryStore
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(reader CategoryLister, writer CategoryStore) *CategoryService {
	return &CategoryService{reader: reader, writer: writer}
}

// Create adds a category.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, name, categoryType string) (uuid.UUID, error) {
	categoryID, err := s.writer.Save(ctx, userID, name, categoryType)
	if err != nil {
		logger.Log.Errorw("failed to save category", "userID", userID, "name", name, "error", err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, ErrCategoryAlreadyExists
		}
		return uuid.Nil, err
	}
	return categoryID, nil
}

// List returns all categories of a user.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error) {
	categories, err := s.reader.ListByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to list categories", "userID", userID, "error", err)
		return nil, err
	}
	return categories, nil
}

// Update overwrites a category's name and type.
func (s *CategoryService) Update(ctx context.Context, userID, categoryID uuid.UUID, name, categoryType string) error {
	if err := s.writer.Update(ctx, userID, categoryID, name, categoryType); err != nil {
		logger.Log.Errorw("failed to update category", "userID", userID, "categoryID", categoryID, "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

// Delete removes a category unless transactions still reference it.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	if err := s.writer.Delete(ctx, userID, categoryID); err != nil {
		logger.Log.Errorw("failed to delete category", "userID", userID, "categoryID", categoryID, "error", err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrCategoryInUse
		}
		return err
	}
	return nil
}
