package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/animation-service/internal/api/dto"
	"github.com/spec-kit/animation-service/internal/service"
)

// AnimationsHandler exposes CRUD endpoints for animations.
type AnimationsHandler struct {
	animations *service.AnimationService
}

// NewAnimationsHandler constructs handler.
func NewAnimationsHandler(animations *service.AnimationService) *AnimationsHandler {
	return &AnimationsHandler{animations: animations}
}

// Create handles POST /api/animation.
func (h *AnimationsHandler) Create(c *fiber.Ctx) error {
	var req dto.AnimationCreateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	animation, err := h.animations.Create(c.UserContext(), actor(c), service.AnimationInput{
		Name:        req.Name,
		Description: req.Description,
		Data:        req.Data,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAnimationResponse(animation))
}

// List handles GET /api/animation.
func (h *AnimationsHandler) List(c *fiber.Ctx) error {
	animations, err := h.animations.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnimationListResponse(animations))
}

// Get handles GET /api/animation/:id.
func (h *AnimationsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	animation, err := h.animations.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnimationResponse(animation))
}

// Update handles PATCH /api/animation.
func (h *AnimationsHandler) Update(c *fiber.Ctx) error {
	var req dto.AnimationUpdateRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	animation, err := h.animations.Update(c.UserContext(), actor(c), service.AnimationInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Data:        req.Data,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnimationResponse(animation))
}

// Delete handles DELETE /api/animation/:id.
func (h *AnimationsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.animations.Delete(c.UserContext(), actor(c), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

