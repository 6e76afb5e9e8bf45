package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nimbusdb/nimbus/internal/pkg/usercontext"
)

// Identity headers set by the upstream auth gateway. The gateway strips these
// from client traffic, so their presence means the request was authenticated.
const (
	HeaderAuthUserID = "X-Auth-User-Id"
	HeaderAuthEmail  = "X-Auth-User-Email"
)

// UserContextMiddleware resolves the gateway identity headers into a
// usercontext.UserContext for downstream handlers.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uc := usercontext.UserContext{}

		if raw := strings.TrimSpace(c.Get(HeaderAuthUserID)); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 32); err == nil && id > 0 {
				uc.UserID = uint(id)
				uc.Email = strings.TrimSpace(c.Get(HeaderAuthEmail))
				uc.IsLoggedIn = true
			}
		}

		c.Locals(usercontext.KeyUserContext, uc)
		return c.Next()
	}
}
