package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey is a long-lived machine credential owned by a user. The key value is
// matched exactly against the x-api-key header and is returned to the caller
// only once, at creation.
type APIKey struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_api_keys_owner_name"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex:idx_api_keys_owner_name"`
	Key       string    `json:"-" gorm:"uniqueIndex;size:64;not null"` // Never expose in JSON
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
