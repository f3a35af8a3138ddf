package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/animation-service/internal/domain"
)

// AnimationCreateRequest payload for POST /api/animation. Data is stored as given.
type AnimationCreateRequest struct {
	Name        string          `json:"name" validate:"required,max=255"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
}

// AnimationUpdateRequest payload for PATCH /api/animation. Empty fields keep
// their current value.
type AnimationUpdateRequest struct {
	ID          int64           `json:"id" validate:"required,gt=0"`
	Name        string          `json:"name" validate:"max=255"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
}

// AnimationResponse is the public view of an animation.
type AnimationResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewAnimationResponse converts a domain animation.
func NewAnimationResponse(a *domain.Animation) AnimationResponse {
	return AnimationResponse{
		ID:          a.ID,
		Name:        a.Name,
		Description: a.Description,
		Data:        a.Data,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// NewAnimationListResponse converts a slice of animations.
func NewAnimationListResponse(animations []domain.Animation) []AnimationResponse {
	out := make([]AnimationResponse, 0, len(animations))
	for i := range animations {
		out = append(out, NewAnimationResponse(&animations[i]))
	}
	return out
}
