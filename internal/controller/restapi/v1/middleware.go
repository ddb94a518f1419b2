package v1

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/maintdesk/ticket-intake/internal/entity"
	"github.com/maintdesk/ticket-intake/internal/infrastructure/identity"
)

const _userLocalKey = "user"

// AuthMiddleware verifies the bearer token issued by the identity provider
// and stores the confirmed user on the request.
func AuthMiddleware(verifier *identity.Verifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := strings.TrimPrefix(ctx.Get(fiber.HeaderAuthorization), "Bearer ")

		user, err := verifier.Verify(token)
		if err != nil {
			return errorResponse(ctx, http.StatusUnauthorized, "invalid or missing credentials")
		}

		ctx.Locals(_userLocalKey, user)

		return ctx.Next()
	}
}

func currentUser(ctx *fiber.Ctx) (entity.User, bool) {
	user, ok := ctx.Locals(_userLocalKey).(entity.User)
	return user, ok
}
