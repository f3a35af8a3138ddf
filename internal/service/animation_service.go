package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/animation-service/internal/domain"
	"github.com/spec-kit/animation-service/internal/events"
	"github.com/spec-kit/animation-service/internal/repository"
	apperrors "github.com/spec-kit/animation-service/pkg/util"
)

// AnimationInput carries the writable animation fields.
type AnimationInput struct {
	ID          int64
	Name        string
	Description string
	Data        json.RawMessage
}

// AnimationService manages stored animations. Their content is not inspected.
type AnimationService struct {
	animations repository.AnimationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAnimationService builds the service.
func NewAnimationService(animations repository.AnimationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AnimationService {
	return &AnimationService{animations: animations, dispatcher: dispatcher, logger: logger}
}

// Create stores a new animation.
func (s *AnimationService) Create(ctx context.Context, actor string, in AnimationInput) (*domain.Animation, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	animation := &domain.Animation{Name: name, Description: in.Description, Data: in.Data}
	if err := s.animations.Create(ctx, animation); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventAnimationCreated, animation.ID, actor, events.AnimationPayload{Name: animation.Name}))
	return animation, nil
}

// Get returns a single animation.
func (s *AnimationService) Get(ctx context.Context, id int64) (*domain.Animation, error) {
	animation, err := s.animations.GetByID(ctx, id)
	if err != nil {
		return nil, animationError(err)
	}
	return animation, nil
}

// List returns every animation.
func (s *AnimationService) List(ctx context.Context) ([]domain.Animation, error) {
	return s.animations.List(ctx)
}

// Update overwrites the given fields of an existing animation.
func (s *AnimationService) Update(ctx context.Context, actor string, in AnimationInput) (*domain.Animation, error) {
	animation, err := s.animations.GetByID(ctx, in.ID)
	if err != nil {
		return nil, animationError(err)
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		animation.Name = name
	}
	if in.Description != "" {
		animation.Description = in.Description
	}
	if len(in.Data) > 0 {
		animation.Data = in.Data
	}

	if err := s.animations.Update(ctx, animation); err != nil {
		return nil, animationError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventAnimationUpdated, animation.ID, actor, events.AnimationPayload{Name: animation.Name}))
	return animation, nil
}

// Delete removes an animation.
func (s *AnimationService) Delete(ctx context.Context, actor string, id int64) error {
	if err := s.animations.Delete(ctx, id); err != nil {
		return animationError(err)
	}
	s.publish(ctx, events.NewEvent(events.EventAnimationDeleted, id, actor, nil))
	return nil
}

func (s *AnimationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func animationError(err error) error {
	de := apperrors.ToDomainError(err)
	if de.Code == "NOT_FOUND" {
		return apperrors.NewNotFound("animation", nil)
	}
	return de
}
