package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is the persisted auth user record. Username always holds the
// natural key of the active user model, so an email-keyed swappable
// model stores its email address here as well as in Email. Extra carries
// the swappable model's additional required fields as JSON.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username    string    `gorm:"size:150;uniqueIndex;not null"`
	Email       string    `gorm:"size:254"`
	Password    string    `gorm:"size:128;not null"`
	FirstName   string    `gorm:"size:150"`
	LastName    string    `gorm:"size:150"`
	IsStaff     bool      `gorm:"not null;default:false"`
	IsSuperuser bool      `gorm:"not null;default:false"`
	IsActive    bool      `gorm:"not null;default:true"`
	DateJoined  time.Time `gorm:"not null"`
	LastLogin   *time.Time
	Extra       string `gorm:"type:text"`
}

func (User) TableName() string {
	return "auth_users"
}

// SetExtra stores the swappable-model field values as JSON
func (u *User) SetExtra(fields map[string]string) error {
	if len(fields) == 0 {
		u.Extra = ""
		return nil
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	u.Extra = string(data)
	return nil
}

// GetExtra decodes the swappable-model field values
func (u *User) GetExtra() (map[string]string, error) {
	if u.Extra == "" {
		return map[string]string{}, nil
	}
	fields := make(map[string]string)
	if err := json.Unmarshal([]byte(u.Extra), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// ContentType identifies a permission-bearing model by its natural key
type ContentType struct {
	ID       uint   `gorm:"primaryKey"`
	AppLabel string `gorm:"size:100;not null;uniqueIndex:idx_content_type_natural_key"`
	Model    string `gorm:"size:100;not null;uniqueIndex:idx_content_type_natural_key"`
}

func (ContentType) TableName() string {
	return "auth_content_types"
}

// Permission is a single grantable permission on a model
type Permission struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:50;not null"`
	Codename      string `gorm:"size:100;not null;uniqueIndex:idx_permission_natural_key"`
	ContentTypeID uint   `gorm:"not null;uniqueIndex:idx_permission_natural_key"`
}

func (Permission) TableName() string {
	return "auth_permissions"
}
