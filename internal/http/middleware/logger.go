package middleware

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"securedoc/internal/logging"
)

// ErrorLocalKey holds an error a handler already answered but still wants in the access log.
const ErrorLocalKey = "request_error"

// Logger is a middleware that logs each HTTP request as one JSON line.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path (access tokens redacted)
// - status
// - latency (in milliseconds, as float)
// - error, when the handler returned or recorded one
func Logger(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := statusOf(c, err)
		attrs := []any{
			"request_id", rid,
			"method", c.Method(),
			"path", redactedPath(c),
			"status", status,
			"latency", float64(time.Since(start).Microseconds()) / 1000,
		}

		logged := err
		if logged == nil {
			logged, _ = c.Locals(ErrorLocalKey).(error)
		}
		if logged != nil {
			attrs = append(attrs, "error", logged.Error())
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(c.UserContext(), level, "http_request", attrs...)

		return err
	}
}

// LoggerWithWriter builds a Logger writing JSON lines to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc))
}

// redactedPath hides the access token, which is a bearer credential.
func redactedPath(c *fiber.Ctx) string {
	path := c.Path()
	if tok := c.Params("token"); tok != "" {
		path = strings.Replace(path, tok, "[redacted]", 1)
	}
	return path
}

// statusOf predicts the final status: the global error handler runs after the middleware chain.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
