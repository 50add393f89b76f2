package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"securedoc/internal/service"
	"securedoc/internal/viewer"
)

// Presenter turns a verified validation into a renderable view.
type Presenter interface {
	Present(ctx context.Context, v *service.Validation) (*viewer.View, error)
}

// ShowGate validates the token and, when it is usable, asks for the email.
// Nothing about the document is revealed before the email matches.
func ShowGate(access service.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := viewer.NewSession(c.Params("token"))
		if _, err := session.Validate(c.UserContext(), access); err != nil {
			return renderDenied(c, err)
		}
		return renderGate(c, fiber.StatusOK, "", "")
	}
}

// SubmitGate re-validates the token and applies the email gate in one service
// call, then renders the viewer.
// Verification lives only as long as this request; a reload starts over at the gate.
func SubmitGate(access service.AccessService, presenter Presenter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.FormValue("email"))
		session := viewer.NewSession(c.Params("token"))

		v, err := session.Verify(c.UserContext(), access, email)
		if err != nil {
			if ae, ok := denial(err); ok && ae.Reason == service.ReasonEmailMismatch {
				return renderGate(c, fiber.StatusForbidden, email, ae.Message)
			}
			return renderDenied(c, err)
		}

		view, err := presenter.Present(c.UserContext(), v)
		if err != nil {
			return renderDenied(c, err)
		}
		return renderViewer(c, view)
	}
}

type accessStatus struct {
	Status string `json:"status"`
}

type verifyRequest struct {
	Email string `json:"email"`
}

// AccessStatus reports whether a token is usable.
//
// @Summary Check an access token
// @Tags access
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} accessStatus
// @Failure 400,403,404,410 {object} errorPayload
// @Router /api/access/{token} [get]
func AccessStatus(access service.AccessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := access.Validate(c.UserContext(), c.Params("token")); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(accessStatus{Status: "email_required"})
	}
}

// VerifyAccess applies the email gate and returns the viewer payload.
//
// @Summary Verify email and get the viewer payload
// @Tags access
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Param body body verifyRequest true "Visitor email"
// @Success 200 {object} viewer.View
// @Failure 400,403,404,410,502 {object} errorPayload
// @Router /api/access/{token}/verify [post]
func VerifyAccess(access service.AccessService, presenter Presenter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		v, err := access.Verify(c.UserContext(), c.Params("token"), req.Email)
		if err != nil {
			return writeServiceError(c, err)
		}
		view, err := presenter.Present(c.UserContext(), v)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(view)
	}
}
