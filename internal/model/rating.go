package model

import "github.com/google/uuid"

// MaxRating is the highest value a rating can take; the lowest is 0.
const MaxRating = 5

// Rating is one user's score for one post. The (UserID, PostID) pair is the primary key.
type Rating struct {
	UserID uuid.UUID `json:"userId" gorm:"type:char(36);primaryKey"`
	PostID uuid.UUID `json:"postId" gorm:"type:char(36);primaryKey;index"`
	Value  uint8     `json:"value" gorm:"not null;check:value <= 5"`

	// Relations
	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *Post `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// AverageRating returns the arithmetic mean of the rating values, or nil when there are none.
func AverageRating(ratings []Rating) *float64 {
	if len(ratings) == 0 {
		return nil
	}
	var sum int
	for _, r := range ratings {
		sum += int(r.Value)
	}
	avg := float64(sum) / float64(len(ratings))
	return &avg
}
