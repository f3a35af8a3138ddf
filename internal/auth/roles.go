package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/animation-service/internal/domain"
)

// RequireAnyAuthenticated ensures the caller holds a valid token.
func (m *AuthMiddleware) RequireAnyAuthenticated() fiber.Handler {
	return m.Require(domain.CapabilityAnyAuthenticated)
}

// RequireAdmin ensures the caller holds the admin capability.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.Require(domain.CapabilityAdminRole)
}

// RequireByMethod lets reads through for any authenticated caller and
// requires the admin capability for everything that mutates.
func (m *AuthMiddleware) RequireByMethod() fiber.Handler {
	read := m.RequireAnyAuthenticated()
	write := m.RequireAdmin()
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return read(c)
		default:
			return write(c)
		}
	}
}
