package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/alphaingen/medboard/models"
	"github.com/alphaingen/medboard/utils"
)

// AccountService owns user identity records: it enforces email uniqueness on
// registration and verifies passwords on login.
type AccountService struct {
	db     *gorm.DB
	mailer utils.Mailer
}

// NewAccountService creates an AccountService. mailer may be nil, in which case
// no registration mail is dispatched.
func NewAccountService(db *gorm.DB, mailer utils.Mailer) *AccountService {
	return &AccountService{db: db, mailer: mailer}
}

// Register creates a user with a bcrypt password hash and dispatches the
// welcome mail. The mail is fire-and-forget: its failure is logged, never
// surfaced, and never rolls back the registration.
func (s *AccountService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, ErrMissingField
	}

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		// The unique index is the authority; the pre-check above only loses
		// under a concurrent registration race.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	s.dispatchWelcomeMail(user)
	return &user, nil
}

// Authenticate verifies the email/password pair and returns the matching user.
func (s *AccountService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return &user, nil
}

// GetUser looks up a user by identity.
func (s *AccountService) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountService) dispatchWelcomeMail(user models.User) {
	if s.mailer == nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil && utils.Sugar != nil {
				utils.Sugar.Errorf("welcome mail panic for %s: %v", user.Email, r)
			}
		}()
		if err := s.mailer.Send(user.Email, utils.WelcomeSubject, utils.WelcomeBody(user.Username)); err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("welcome mail to %s failed: %v", user.Email, err)
			}
		}
	}()
}
