package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"securedoc/internal/service"
)

// CreateGrant issues an access grant.
//
// @Summary Create an access grant
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateGrantInput true "Grant"
// @Success 201 {object} model.AccessGrant
// @Failure 400,401,403,404 {object} errorPayload
// @Router /admin/grants [post]
func CreateGrant(svc service.GrantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateGrantInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		g, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(g)
	}
}

// ListGrants lists grants newest first with their document titles.
//
// @Summary List access grants
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.GrantListResult
// @Failure 400,401,403 {object} errorPayload
// @Router /admin/grants [get]
func ListGrants(svc service.GrantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := pagination(c, 50)
		if !ok {
			return nil
		}
		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// UpdateGrant edits email and/or expiry.
//
// @Summary Update an access grant
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grant ID"
// @Param body body service.UpdateGrantInput true "Fields to change"
// @Success 200 {object} model.AccessGrant
// @Failure 400,401,403,404 {object} errorPayload
// @Router /admin/grants/{id} [patch]
func UpdateGrant(svc service.GrantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return nil
		}
		var in service.UpdateGrantInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		g, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(g)
	}
}

// ToggleGrant flips the active flag.
//
// @Summary Activate or deactivate an access grant
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grant ID"
// @Success 200 {object} model.AccessGrant
// @Failure 400,401,403,404 {object} errorPayload
// @Router /admin/grants/{id}/toggle [post]
func ToggleGrant(svc service.GrantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return nil
		}
		g, err := svc.ToggleActive(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(g)
	}
}

// DeleteGrant removes a grant. The confirm query parameter must repeat the id.
//
// @Summary Delete an access grant
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Grant ID"
// @Param confirm query string true "Must equal the grant ID"
// @Success 204
// @Failure 400,401,403,404,409 {object} errorPayload
// @Router /admin/grants/{id} [delete]
func DeleteGrant(svc service.GrantService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return nil
		}
		if err := svc.Delete(c.UserContext(), id, c.Query("confirm")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// uuidParam reads :id and answers 400 itself when it is not a UUID.
func uuidParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		return "", false
	}
	return id, true
}
