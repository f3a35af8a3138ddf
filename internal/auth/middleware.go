package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/animation-service/internal/domain"
	apperrors "github.com/spec-kit/animation-service/pkg/util"
)

const identityKey = "auth_identity"

// AuthMiddleware adapts a RequestGate to fiber.
type AuthMiddleware struct {
	gate *RequestGate
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(gate *RequestGate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// Require runs the next handler only if the gate authorizes capability.
// Denials carry a generic message whatever the internal reason.
func (m *AuthMiddleware) Require(capability domain.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		result := m.gate.Check(c.Get(fiber.HeaderAuthorization), capability)
		if !result.Decision.Allowed {
			if result.Decision.HTTPStatus() == http.StatusForbidden {
				return apperrors.NewForbidden("forbidden")
			}
			return apperrors.NewUnauthorized("unauthorized")
		}

		c.Locals(identityKey, result.Identity)
		return c.Next()
	}
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}
