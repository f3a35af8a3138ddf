package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/animation-service/internal/auth"
	apperrors "github.com/spec-kit/animation-service/pkg/util"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	gate *auth.RequestGate
}

// NewAuthHandler constructs handler.
func NewAuthHandler(gate *auth.RequestGate) *AuthHandler {
	return &AuthHandler{gate: gate}
}

// Login handles GET|POST /api/auth. Credentials come from Basic auth and the
// token is returned as the plain-text body.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	token, _, err := h.gate.LoginBasic(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		if errors.Is(err, auth.ErrStoreUnavailable) {
			return apperrors.NewServiceUnavailable("service unavailable")
		}
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="api"`)
		return apperrors.NewUnauthorized("unauthorized")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(token)
}

// Hello handles GET /api/hello, a token smoke test.
func (h *AuthHandler) Hello(c *fiber.Ctx) error {
	return c.SendString("Hello World")
}
