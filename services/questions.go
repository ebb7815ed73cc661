package services

import (
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/alphaingen/medboard/models"
	"github.com/alphaingen/medboard/utils"
)

const (
	defaultTopic  = "General"
	defaultAuthor = "Anonymous"
)

// QuestionService owns question posts and their embedded reply threads.
type QuestionService struct {
	db *gorm.DB
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// PostQuestionInput carries the caller-supplied fields for a new question.
// Tags, Author, and Topic are optional.
type PostQuestionInput struct {
	Title   string
	Content string
	Tags    []string
	Author  string
	Topic   string
}

// Post creates a question. Title and content are required; topic and author
// fall back to their defaults. Author is a display string, not a user
// reference.
func (s *QuestionService) Post(in PostQuestionInput) (*models.Question, error) {
	title := utils.Sanitize(strings.TrimSpace(in.Title))
	content := utils.Sanitize(strings.TrimSpace(in.Content))
	if title == "" || content == "" {
		return nil, ErrMissingField
	}

	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = defaultTopic
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = defaultAuthor
	}

	question := models.Question{
		Title:   title,
		Content: content,
		Topic:   topic,
		Author:  author,
		Tags:    datatypes.NewJSONSlice(in.Tags),
		Replies: []models.Reply{},
	}
	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	question.Normalize()
	return &question, nil
}

// List returns all questions newest first, each with its full reply thread in
// insertion order.
func (s *QuestionService) List() ([]models.Question, error) {
	var questions []models.Question
	err := s.db.
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("replies.created_at ASC, replies.id ASC")
		}).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].Normalize()
	}
	return questions, nil
}

// AddReply appends a reply to the question's thread. The insert runs in a
// transaction that asserts the parent exists, so concurrent appends to the same
// question each land as their own row and none is lost.
func (s *QuestionService) AddReply(questionID, text, author string) (*models.Reply, error) {
	author = strings.TrimSpace(author)
	if author == "" {
		author = defaultAuthor
	}

	reply := models.Reply{
		QuestionID: questionID,
		Text:       utils.Sanitize(text),
		Author:     author,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Question{}).Where("id = ?", questionID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Create(&reply).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &reply, nil
}
