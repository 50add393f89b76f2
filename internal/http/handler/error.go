package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"securedoc/internal/http/middleware"
	"securedoc/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "TOKEN_NOT_FOUND", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// recordError hands an already-answered error to the access log.
func recordError(c *fiber.Ctx, err error) {
	c.Locals(middleware.ErrorLocalKey, err)
}

func denial(err error) (*service.AccessError, bool) {
	var ae *service.AccessError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func reasonStatus(r service.Reason) (int, string) {
	switch r {
	case service.ReasonTokenMissing:
		return fiber.StatusBadRequest, "TOKEN_MISSING"
	case service.ReasonTokenNotFound:
		return fiber.StatusNotFound, "TOKEN_NOT_FOUND"
	case service.ReasonAccessDeactivated:
		return fiber.StatusForbidden, "ACCESS_DEACTIVATED"
	case service.ReasonAccessExpired:
		return fiber.StatusGone, "ACCESS_EXPIRED"
	case service.ReasonDocumentUnavailable:
		return fiber.StatusNotFound, "DOCUMENT_UNAVAILABLE"
	case service.ReasonEmailMismatch:
		return fiber.StatusForbidden, "EMAIL_MISMATCH"
	case service.ReasonViewerLoadFailure:
		return fiber.StatusBadGateway, "VIEWER_LOAD_FAILURE"
	case service.ReasonUploadFailure:
		return fiber.StatusInternalServerError, "UPLOAD_FAILURE"
	default:
		return fiber.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// writeServiceError maps service errors onto the JSON envelope. Anything it
// does not recognize is returned for the global ErrorHandler.
func writeServiceError(c *fiber.Ctx, err error) error {
	if ae, ok := denial(err); ok {
		if ae.Reason == service.ReasonUploadFailure || ae.Reason == service.ReasonViewerLoadFailure {
			recordError(c, err)
		}
		status, code := reasonStatus(ae.Reason)
		return writeError(c, status, code, ae.Message)
	}

	switch {
	case errors.Is(err, service.ErrIDRequired),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrReaderNil),
		errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrInvalidExpiry),
		errors.Is(err, service.ErrExpiryInPast),
		errors.Is(err, service.ErrNothingToUpdate):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrGrantNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrUnsupportedType):
		return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, service.ErrConfirmationRequired):
		return writeError(c, fiber.StatusConflict, "CONFIRMATION_REQUIRED", err.Error())
	}
	return err
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Errors that are not *fiber.Error are logged with the request id before being hidden.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if log != nil {
			log.Error("request_failed",
				"request_id", requestIDFromCtx(c),
				"method", c.Method(),
				"error", err.Error(),
			)
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "operator role required")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
