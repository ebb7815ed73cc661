package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guideline is a moderator-published post that members can like at most once.
// LikeCount always equals the number of GuidelineLike rows for the guideline;
// both are mutated together inside one transaction.
type Guideline struct {
	ID        string          `gorm:"type:char(36);primaryKey" json:"_id"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	Content   string          `gorm:"type:text;not null" json:"content"`
	Image     string          `gorm:"size:1024" json:"image"`
	LikeCount int             `gorm:"not null;default:0" json:"likeCount"`
	CreatedAt time.Time       `gorm:"index" json:"createdAt"`
	Likes     []GuidelineLike `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	LikedBy   []string        `gorm:"-" json:"likedBy"`
}

// GuidelineLike records one member's like. The composite unique index is what
// makes duplicate likes impossible under concurrent requests.
type GuidelineLike struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	GuidelineID string    `gorm:"type:char(36);not null;uniqueIndex:uniq_guideline_email" json:"-"`
	Email       string    `gorm:"size:255;not null;uniqueIndex:uniq_guideline_email" json:"email"`
	CreatedAt   time.Time `json:"-"`
}

// BeforeCreate assigns the guideline identity and timestamp.
func (g *Guideline) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	return nil
}

// Normalize projects the preloaded like rows into the likedBy email set,
// marshaling as an array even when empty.
func (g *Guideline) Normalize() {
	g.LikedBy = make([]string, 0, len(g.Likes))
	for _, like := range g.Likes {
		g.LikedBy = append(g.LikedBy, like.Email)
	}
}
