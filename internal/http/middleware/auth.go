package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"securedoc/internal/auth"
	"securedoc/internal/model"
)

// OperatorLocalKey is where RequireOperator stores the authenticated model.Operator.
const OperatorLocalKey = "operator"

// Authenticator resolves a bearer token to an operator.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Operator, error)
}

// RequireOperator rejects requests without an operator bearer token.
// Denials become 401/403 fiber errors; policy lookup failures pass through as 500s.
func RequireOperator(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := a.Authenticate(c.UserContext(), bearerToken(c))
		switch {
		case errors.Is(err, auth.ErrUnauthenticated):
			c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="admin"`)
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		case errors.Is(err, auth.ErrForbidden):
			return fiber.NewError(fiber.StatusForbidden, "operator role required")
		case err != nil:
			return err
		}
		c.Locals(OperatorLocalKey, op)
		return c.Next()
	}
}

// OperatorFromCtx returns the operator stored by RequireOperator.
func OperatorFromCtx(c *fiber.Ctx) (model.Operator, bool) {
	op, ok := c.Locals(OperatorLocalKey).(model.Operator)
	return op, ok
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
