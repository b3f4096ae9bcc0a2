package model

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark marks a post as saved by a user.
type Bookmark struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);primaryKey"`
	PostID    uuid.UUID `json:"postId" gorm:"type:char(36);primaryKey;index"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&Rating{},
		&Comment{},
		&Media{},
		&Bookmark{},
	}
}
