package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question is a community question with its embedded reply thread.
// Replies are append-only and serialized inline in insertion order.
type Question struct {
	ID        string                      `gorm:"type:char(36);primaryKey" json:"_id"`
	Title     string                      `gorm:"size:255;not null" json:"title"`
	Content   string                      `gorm:"type:text;not null" json:"content"`
	Topic     string                      `gorm:"size:64;not null" json:"topic"`
	Author    string                      `gorm:"size:128;not null" json:"author"`
	Tags      datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt time.Time                   `gorm:"index" json:"createdAt"`
	Replies   []Reply                     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"replies"`
}

// Reply belongs to exactly one Question and carries no identity of its own
// toward clients; its lifecycle is bound to the parent question.
type Reply struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	QuestionID string    `gorm:"type:char(36);index;not null" json:"-"`
	Text       string    `gorm:"type:text" json:"text"`
	Author     string    `gorm:"size:128;not null" json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BeforeCreate assigns the question identity and timestamp.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}
	return nil
}

// BeforeCreate stamps the reply time on the server side.
func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// Normalize guarantees the reply thread and tag list marshal as arrays, never null.
func (q *Question) Normalize() {
	if q.Replies == nil {
		q.Replies = []Reply{}
	}
	if q.Tags == nil {
		q.Tags = datatypes.JSONSlice[string]{}
	}
}
