package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/axonops/authadm/internal/auth"
	apperrors "github.com/axonops/authadm/pkg/errors"
)

// ContentTypeID returns the id for the natural key, creating the row if
// it does not exist yet
func (s *Store) ContentTypeID(ctx context.Context, appLabel, model string) (uint, error) {
	ctype := ContentType{AppLabel: appLabel, Model: model}
	err := s.db.WithContext(ctx).
		Where(ContentType{AppLabel: appLabel, Model: model}).
		FirstOrCreate(&ctype).Error
	if err != nil {
		return 0, apperrors.NewStoreError("content type lookup", err)
	}
	return ctype.ID, nil
}

// FindContentTypeID looks up the id for the natural key without creating
// anything. The bool is false when the content type does not exist.
func (s *Store) FindContentTypeID(ctx context.Context, appLabel, model string) (uint, bool, error) {
	var ctype ContentType
	err := s.db.WithContext(ctx).
		Where(ContentType{AppLabel: appLabel, Model: model}).
		First(&ctype).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, apperrors.NewStoreError("content type lookup", err)
	}
	return ctype.ID, true, nil
}

// PermissionCodenames returns the set of codenames already stored for a
// content type
func (s *Store) PermissionCodenames(ctx context.Context, contentTypeID uint) (map[string]bool, error) {
	var codenames []string
	err := s.db.WithContext(ctx).Model(&Permission{}).
		Where("content_type_id = ?", contentTypeID).
		Pluck("codename", &codenames).Error
	if err != nil {
		return nil, apperrors.NewStoreError("list permission codenames", err)
	}

	existing := make(map[string]bool, len(codenames))
	for _, codename := range codenames {
		existing[codename] = true
	}
	return existing, nil
}

// AddPermissions inserts the given permissions for a content type
func (s *Store) AddPermissions(ctx context.Context, contentTypeID uint, perms []auth.PermissionDef) error {
	if len(perms) == 0 {
		return nil
	}

	rows := make([]Permission, 0, len(perms))
	for _, perm := range perms {
		rows = append(rows, Permission{
			Name:          perm.Name,
			Codename:      perm.Codename,
			ContentTypeID: contentTypeID,
		})
	}

	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return apperrors.NewStoreError("create permissions", err)
	}
	return nil
}

// CountPermissions returns the number of permissions for a content type
func (s *Store) CountPermissions(ctx context.Context, contentTypeID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Permission{}).
		Where("content_type_id = ?", contentTypeID).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.NewStoreError("count permissions", err)
	}
	return count, nil
}

// DeletePermissions removes all permissions for a content type
func (s *Store) DeletePermissions(ctx context.Context, contentTypeID uint) error {
	err := s.db.WithContext(ctx).
		Where("content_type_id = ?", contentTypeID).
		Delete(&Permission{}).Error
	if err != nil {
		return apperrors.NewStoreError("delete permissions", err)
	}
	return nil
}
