package model

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:255;not null"`
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	RoleID       *uint  `json:"role_id,omitempty" gorm:"index"`
	// PasswordChangedAt holds unix seconds of the last password change. Tokens
	// issued before it are rejected, which makes a password change revoke all
	// outstanding tokens without a revocation list.
	PasswordChangedAt *int64    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
