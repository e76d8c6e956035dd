// Package account handles registration, login and user administration.
package account

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/ReviewDesk/app/models"
	"github.com/ManuelReschke/ReviewDesk/app/repository"
	"github.com/ManuelReschke/ReviewDesk/internal/pkg/apperror"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists is returned when username or email is already taken.
	ErrAccountExists = apperror.Validation("username", "username or email already registered")
)

// Service manages user accounts.
type Service struct {
	users repository.UserRepository
}

// NewService creates an account service on the user repository of f.
func NewService(f *repository.Factory) *Service {
	return &Service{users: f.GetUserRepository()}
}

// Register creates an active Owner or Inspector account.
func (s *Service) Register(username, email, password string, role models.Role) (*models.User, error) {
	if role != models.RoleOwner && role != models.RoleInspector {
		return nil, apperror.Validation("role", "must be Owner or Inspector")
	}

	user, err := models.CreateUser(strings.TrimSpace(username), strings.TrimSpace(email), password, role)
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, apperror.Validation(strings.ToLower(verrs[0].Field()), "failed "+verrs[0].Tag()+" check")
		}
		return nil, err
	}

	if err := s.ensureFree(user.Username, user.Email); err != nil {
		return nil, err
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	log.Infof("[Account] Registered user %d (%s) as %s", user.ID, user.Username, user.Role)
	return user, nil
}

func (s *Service) ensureFree(username, email string) error {
	if _, err := s.users.FindByUsername(username); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		return ErrAccountExists
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return err
	}
	return nil
}

// Authenticate checks email and password. Deleted accounts cannot log in.
func (s *Service) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(strings.TrimSpace(email))
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive() {
		return nil, apperror.Denied("account has been deleted")
	}
	return user, nil
}

// Users lists all accounts.
func (s *Service) Users() ([]models.User, error) {
	return s.users.FindAll()
}

// DeleteUser soft-deletes an account. Admins cannot delete themselves.
func (s *Service) DeleteUser(actorID, userID uint) error {
	if actorID == userID {
		return apperror.Validation("id", "cannot delete your own account")
	}
	if err := s.users.Delete(userID); err != nil {
		return err
	}
	log.Infof("[Account] User %d deleted by admin %d", userID, actorID)
	return nil
}
