package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Permission names granted through roles.
const (
	PermPostLogin    = "can_post_login"
	PermGetMyUser    = "can_get_my_user"
	PermGetUsers     = "can_get_users"
	PermPostProducts = "can_post_products"
	PermPublishImage = "can_publish_img"
)

// PermissionSet maps permission names to grants. A nil set or a missing key
// means denied, never allowed.
type PermissionSet map[string]bool

// Allows reports whether the named permission is explicitly granted.
func (p PermissionSet) Allows(permission string) bool {
	return p != nil && p[permission]
}

// Value implements driver.Valuer, storing the set as a JSON column.
func (p PermissionSet) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner.
func (p *PermissionSet) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionSet{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan permission set: unexpected type %T", value)
	}
	return json.Unmarshal(raw, p)
}

// Role is a named permission bundle. A user references at most one role.
type Role struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Permissions PermissionSet `json:"permissions" gorm:"type:json"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
