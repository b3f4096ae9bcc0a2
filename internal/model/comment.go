package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLength bounds Comment.Content.
const MaxCommentLength = 1024

// Comment is a remark left by a user on a post.
type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	PostID    uuid.UUID `json:"postId" gorm:"type:char(36);not null;index"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;index"`
	Content   string    `json:"content" gorm:"size:1024;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentView is a comment joined with its author's identity.
type CommentView struct {
	ID                 uuid.UUID `json:"id"`
	Content            string    `json:"content"`
	UserID             uuid.UUID `json:"userId"`
	PostID             uuid.UUID `json:"postId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	UserName           *string   `json:"userName"`
	UserProfilePicture *string   `json:"userProfilePicture"`
}
