package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/alphaingen/medboard/models"
	"github.com/alphaingen/medboard/utils"
)

// DefaultGuidelineImage is used when the publisher supplies no image.
const DefaultGuidelineImage = "https://placehold.co/600x400?text=Guideline"

// PublishPredicate decides whether the given email may publish guidelines.
// The rule is configuration supplied at construction, not a comparison baked
// into the service.
type PublishPredicate func(email string) bool

// ModeratorOnly returns a predicate that admits exactly the given email.
func ModeratorOnly(moderatorEmail string) PublishPredicate {
	return func(email string) bool {
		return email == moderatorEmail
	}
}

// GuidelineService owns guideline posts, their like counters, and the set of
// users who have liked each.
type GuidelineService struct {
	db         *gorm.DB
	canPublish PublishPredicate
}

// NewGuidelineService creates a GuidelineService with the given publish rule.
func NewGuidelineService(db *gorm.DB, canPublish PublishPredicate) *GuidelineService {
	return &GuidelineService{db: db, canPublish: canPublish}
}

// Post publishes a guideline on behalf of authorEmail. Authors outside the
// publish predicate are rejected.
func (s *GuidelineService) Post(authorEmail, title, content, image string) (*models.Guideline, error) {
	if s.canPublish == nil || !s.canPublish(strings.TrimSpace(authorEmail)) {
		return nil, ErrNotAuthorized
	}

	title = utils.Sanitize(strings.TrimSpace(title))
	content = utils.Sanitize(strings.TrimSpace(content))
	if title == "" || content == "" {
		return nil, ErrMissingField
	}
	if strings.TrimSpace(image) == "" {
		image = DefaultGuidelineImage
	}

	guideline := models.Guideline{
		Title:   title,
		Content: content,
		Image:   image,
	}
	if err := s.db.Create(&guideline).Error; err != nil {
		return nil, err
	}
	guideline.Normalize()
	return &guideline, nil
}

// List returns all guidelines newest first with their likedBy sets.
func (s *GuidelineService) List() ([]models.Guideline, error) {
	var guidelines []models.Guideline
	err := s.db.
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("guideline_likes.created_at ASC, guideline_likes.id ASC")
		}).
		Order("created_at DESC").
		Find(&guidelines).Error
	if err != nil {
		return nil, err
	}
	for i := range guidelines {
		guidelines[i].Normalize()
	}
	return guidelines, nil
}

// Like records that email liked the guideline. The like row and the counter
// increment commit together in one transaction; the unique index on
// (guideline_id, email) rejects a concurrent duplicate, so like_count never
// diverges from the membership set.
func (s *GuidelineService) Like(guidelineID, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingField
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Guideline{}).Where("id = ?", guidelineID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		like := models.GuidelineLike{GuidelineID: guidelineID, Email: email}
		if err := tx.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyLiked
			}
			return err
		}

		return tx.Model(&models.Guideline{}).
			Where("id = ?", guidelineID).
			UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
	})
	return err
}
