package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"securedoc/internal/http/middleware"
	"securedoc/internal/service"
)

// ListDocuments lists documents with limit & offset.
//
// @Summary List documents
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Failure 400,401,403 {object} errorPayload
// @Router /admin/documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok := pagination(c, 10)
		if !ok {
			return nil
		}
		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			recordError(c, err)
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// UploadDocument accepts multipart/form-data with fields title and file.
//
// @Summary Upload a PDF
// @Tags admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Document title"
// @Param file formData file true "PDF file"
// @Success 201 {object} model.Document
// @Failure 400,401,403,413,415 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /admin/documents [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		op, _ := middleware.OperatorFromCtx(c)
		doc, err := docSvc.Upload(c.UserContext(), op, f, service.UploadInput{
			Title:            c.FormValue("title"),
			OriginalFilename: fh.Filename,
			Size:             fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns one document by ID.
//
// @Summary Get a document
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 400,401,403,404 {object} errorPayload
// @Router /admin/documents/{id} [get]
func GetDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return nil
		}
		doc, err := docSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

type titleRequest struct {
	Title string `json:"title"`
}

// UpdateDocument renames a document; the title is the only editable field.
//
// @Summary Rename a document
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param body body titleRequest true "New title"
// @Success 200 {object} model.Document
// @Failure 400,401,403,404 {object} errorPayload
// @Router /admin/documents/{id} [patch]
func UpdateDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return nil
		}
		var req titleRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		doc, err := docSvc.UpdateTitle(c.UserContext(), id, req.Title)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes the object and its record. Grants pointing at it remain
// and validate as document unavailable.
//
// @Summary Delete a document
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 400,401,403,404 {object} errorPayload
// @Router /admin/documents/{id} [delete]
func DeleteDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return nil
		}
		if err := docSvc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// pagination parses limit/offset and answers 400 itself on bad input.
func pagination(c *fiber.Ctx, defLimit int) (int, int, bool) {
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defLimit)))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		return 0, 0, false
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		_ = writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		return 0, 0, false
	}
	return limit, offset, true
}
