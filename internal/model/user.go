package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered reviewer.
type User struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name              string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash      string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	ProfilePictureURL *string   `json:"profilePictureUrl" gorm:"size:255"`
	IsAdmin           bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PublicUser is the projection of a user that is safe to hand to any caller.
type PublicUser struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ProfilePictureURL *string   `json:"profilePictureUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Profile is the projection of a user returned to the user themselves.
type Profile struct {
	PublicUser
	IsAdmin bool `json:"isAdmin"`
}

// SessionUser is what getSession reports about the logged in user.
type SessionUser struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	IsAdmin bool      `json:"isAdmin"`
}

// Public returns the public projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                u.ID,
		Name:              u.Name,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
	}
}
