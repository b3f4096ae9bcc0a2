package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a user-submitted review of a location.
type Post struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"size:1024;not null"`
	Price       string    `json:"price" gorm:"size:50;not null"`
	UserID      uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostSummary is a post joined with its author and read-time aggregates.
// AvgRating is nil when the post has no ratings.
type PostSummary struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Price              string    `json:"price"`
	UserID             uuid.UUID `json:"userId"`
	UserName           *string   `json:"userName"`
	UserProfilePicture *string   `json:"userProfilePicture"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	AvgRating          *float64  `json:"avgRating"`
	RatingCount        int64     `json:"ratingCount"`
	MediaCount         int64     `json:"mediaCount"`
}
