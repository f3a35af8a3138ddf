package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/animation-service/internal/auth"
	apperrors "github.com/spec-kit/animation-service/pkg/util"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bindBody decodes the JSON body into out and checks its validate tags.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			details := make(map[string]any, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[strings.ToLower(fe.Field())] = fe.Tag()
			}
			return apperrors.NewValidationError("invalid payload", details)
		}
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func actor(c *fiber.Ctx) string {
	if identity, ok := auth.IdentityFromContext(c); ok {
		return identity.Subject
	}
	return ""
}
