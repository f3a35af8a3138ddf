package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/animation-service/internal/auth"
	"github.com/spec-kit/animation-service/internal/domain"
	"github.com/spec-kit/animation-service/internal/events"
	"github.com/spec-kit/animation-service/internal/repository"
	apperrors "github.com/spec-kit/animation-service/pkg/util"
)

// UserUpdate carries the fields a caller may change. A nil Password keeps the
// current one.
type UserUpdate struct {
	ID       int64
	Name     string
	Password *string
}

// UserService manages API accounts and their credentials.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{users: users, dispatcher: dispatcher, logger: logger}
}

// Create registers a user with a freshly salted password hash.
func (s *UserService) Create(ctx context.Context, actor, name, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return nil, apperrors.NewValidationError("name and password required", nil)
	}

	cred, err := auth.NewCredential(name, password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		PasswordHash: cred.PasswordHash,
		PasswordSalt: cred.Salt,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, userError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserCreated, user.ID, actor, events.UserPayload{Name: user.Name}))
	return user, nil
}

// Get returns a single user.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// Update renames a user and, if given, replaces the password. A new password
// always gets a new salt.
func (s *UserService) Update(ctx context.Context, actor string, update UserUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, update.ID)
	if err != nil {
		return nil, userError(err)
	}

	if name := strings.TrimSpace(update.Name); name != "" {
		user.Name = name
	}

	passwordChanged := false
	if update.Password != nil {
		if *update.Password == "" {
			return nil, apperrors.NewValidationError("password must not be empty", nil)
		}
		cred, err := auth.NewCredential(user.Name, *update.Password)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = cred.PasswordHash
		user.PasswordSalt = cred.Salt
		passwordChanged = true
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, userError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventUserUpdated, user.ID, actor, events.UserPayload{
		Name:            user.Name,
		PasswordChanged: passwordChanged,
	}))
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, actor string, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return userError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventUserDeleted, id, actor, nil))
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func userError(err error) error {
	de := apperrors.ToDomainError(err)
	switch de.Code {
	case "NOT_FOUND":
		return apperrors.NewNotFound("user", nil)
	case "CONFLICT":
		return apperrors.NewConflict("user name already taken", nil)
	}
	return de
}
