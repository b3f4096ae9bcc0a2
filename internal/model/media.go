package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxMediaPerPost bounds how many media URLs can be attached when creating a post.
const MaxMediaPerPost = 10

// Media is an image attached to a post.
type Media struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	URL       string    `json:"url" gorm:"size:1024;not null"`
	PostID    uuid.UUID `json:"postId" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name used by the existing schema.
func (Media) TableName() string {
	return "post_media"
}

// BeforeCreate sets UUID before creating the record.
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
