package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dompetku/dompetku/internal/logger"
	"github.com/dompetku/dompetku/internal/models"
)

// ProfileReader defines read operations needed by the user service.
type ProfileReader interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// ProfileWriter defines write operations needed by the user service.
type ProfileWriter interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, name string, jobTitle *string, incomeEstimate *decimal.Decimal) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// UserService handles profile reads and updates.
type UserService struct {
	reader ProfileReader
	writer ProfileWriter
}

// NewUserService creates a new UserService instance.
func NewUserService(reader ProfileReader, writer ProfileWriter) *UserService {
	return &UserService{reader: reader, writer: writer}
}

// GetProfile returns the user's profile.
func (svc *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserDoesNotExist
	}
	return user, nil
}

// UpdateProfile overwrites the user's mutable profile fields.
func (svc *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string, jobTitle *string, incomeEstimate *decimal.Decimal) error {
	if err := svc.writer.UpdateProfile(ctx, userID, name, jobTitle, incomeEstimate); err != nil {
		logger.Log.Errorw("failed to update profile", "userID", userID, "err", err)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserDoesNotExist
		}
		return err
	}
	return nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (svc *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "userID", userID, "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		logger.Log.Errorw("invalid credentials on password change", "userID", userID)
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		logger.Log.Errorw("failed to update password", "userID", userID, "err", err)
		return err
	}

	return nil
}
