package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// CategoryReaderRepository handles category read operations
type CategoryReaderRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewCategoryReaderRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *CategoryReaderRepository {
	return &CategoryReaderRepository{db: db, txGetter: txGetter}
}

func (r *CategoryReaderRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// GetByID returns the category owned by userID with the given id, or nil if
// no such category exists.
func (r *CategoryReaderRepository) GetByID(ctx context.Context, userID, categoryID uuid.UUID) (*models.CategoryDB, error) {
	const query = `
		SELECT category_id, user_id, name, type, created_at, updated_at
		FROM categories
		WHERE category_id = $1 AND user_id = $2
		LIMIT 1
	`

	var category models.CategoryDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &category, query, categoryID, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{categoryID, userID},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &category, nil
}

// ListByUserID returns all categories of a user ordered by name.
func (r *CategoryReaderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]models.CategoryDB, error) {
	const query = `
		SELECT category_id, user_id, name, type, created_at, updated_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`

	var categories []models.CategoryDB
	err := r.db.SelectContext(ctx, &categories, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", len(categories),
		"error", err,
	)

	return categories, err
}

// CategoryWriterRepository handles category write operations
type CategoryWriterRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewCategoryWriterRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *CategoryWriterRepository {
	return &CategoryWriterRepository{db: db, txGetter: txGetter}
}

func (r *CategoryWriterRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new category and returns its generated id.
func (r *CategoryWriterRepository) Save(ctx context.Context, userID uuid.UUID, name, categoryType string) (uuid.UUID, error) {
	const query = `
		INSERT INTO categories (category_id, user_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING category_id
	`

	var categoryID uuid.UUID
	err := sqlx.GetContext(ctx, r.executor(ctx), &categoryID, query, uuid.New(), userID, name, categoryType)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, name, categoryType},
		"result", categoryID,
		"error", err,
	)

	return categoryID, err
}

// GetOrCreate performs an UPSERT: creates the category if it does not exist,
// otherwise returns the existing one's id. Used for the built-in transfer
// categories.
func (r *CategoryWriterRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, name, categoryType string) (uuid.UUID, error) {
	const query = `
		INSERT INTO categories (category_id, user_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, name)
		DO UPDATE SET updated_at = NOW()
		RETURNING category_id
	`

	var categoryID uuid.UUID
	err := sqlx.GetContext(ctx, r.executor(ctx), &categoryID, query, uuid.New(), userID, name, categoryType)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, name, categoryType},
		"result", categoryID,
		"error", err,
	)

	return categoryID, err
}

// Update overwrites the category's name and type.
// Returns sql.ErrNoRows when the category does not exist or is not owned by userID.
func (r *CategoryWriterRepository) Update(ctx context.Context, userID, categoryID uuid.UUID, name, categoryType string) error {
	const query = `
		UPDATE categories
		SET name = $3, type = $4, updated_at = NOW()
		WHERE category_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, categoryID, userID, name, categoryType)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{categoryID, userID, name, categoryType},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the category row.
// Returns sql.ErrNoRows when the category does not exist or is not owned by userID.
func (r *CategoryWriterRepository) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	const query = `
		DELETE FROM categories
		WHERE category_id = $1 AND user_id = $2
	`

	res, err := r.executor(ctx).ExecContext(ctx, query, categoryID, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{categoryID, userID},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
