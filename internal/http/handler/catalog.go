package handler

import (
	"github.com/gofiber/fiber/v2"

	"securedoc/internal/model"
	"securedoc/internal/service"
)

// ListServices returns the public services listing.
//
// @Summary List services
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string][]model.Service
// @Router /services [get]
func ListServices(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Services(c.UserContext())
		if err != nil {
			return err
		}
		if items == nil {
			items = []model.Service{}
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// ListProducts returns the public products listing.
//
// @Summary List products
// @Tags catalog
// @Produce json
// @Success 200 {object} map[string][]model.Product
// @Router /products [get]
func ListProducts(svc service.CatalogService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Products(c.UserContext())
		if err != nil {
			return err
		}
		if items == nil {
			items = []model.Product{}
		}
		return c.JSON(fiber.Map{"data": items})
	}
}
