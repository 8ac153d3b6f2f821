package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/axonops/authadm/pkg/errors"
)

// CreateUser inserts a new user record, assigning an ID and join date
// when they are missing
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperrors.NewStoreError("create user", err)
	}

	s.logger.WithField("username", user.Username).Debug("Created user")
	return nil
}

// GetUserByUsername finds a user by username, case-insensitively. Both
// sides of the comparison are folded by the database so its collation
// rules apply consistently; an exact-case name always matches even when
// the backend folds ASCII only.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", username)
		}
		return nil, apperrors.NewStoreError("get user", err)
	}
	return &user, nil
}

// GetUserByEmail finds a user by email address
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, apperrors.NewNotFoundError("user", email)
	}
	var user User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", email)
		}
		return nil, apperrors.NewStoreError("get user", err)
	}
	return &user, nil
}

// UsernameExists reports whether a user with the given natural key exists
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&User{}).
		Where("LOWER(username) = LOWER(?)", username).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewStoreError("count users", err)
	}
	return count > 0, nil
}

// UpdatePassword replaces the stored password hash for a user
func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result := s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", id).
		Update("password", hash)
	if result.Error != nil {
		return apperrors.NewStoreError("update password", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user", id.String())
	}
	return nil
}

// CountUsers returns the total number of user records
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewStoreError("count users", err)
	}
	return count, nil
}
