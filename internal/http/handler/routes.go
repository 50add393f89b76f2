package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"securedoc/internal/http/middleware"
	"securedoc/internal/service"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	DB        *sql.DB
	Access    service.AccessService
	Grants    service.GrantService
	Documents service.DocumentService
	Catalog   service.CatalogService
	Presenter Presenter
	Auth      middleware.Authenticator
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Visitor pages. The token is optional in the pattern so a bare link reports it missing.
	app.Get("/secure-document/:token?", ShowGate(d.Access))
	app.Post("/secure-document/:token?", SubmitGate(d.Access, d.Presenter))

	api := app.Group("/api/access")
	api.Get("/:token", AccessStatus(d.Access))
	api.Post("/:token/verify", VerifyAccess(d.Access, d.Presenter))

	app.Get("/services", ListServices(d.Catalog))
	app.Get("/products", ListProducts(d.Catalog))

	admin := app.Group("/admin", middleware.RequireOperator(d.Auth))

	admin.Post("/grants", CreateGrant(d.Grants))
	admin.Get("/grants", ListGrants(d.Grants))
	admin.Patch("/grants/:id", UpdateGrant(d.Grants))
	admin.Post("/grants/:id/toggle", ToggleGrant(d.Grants))
	admin.Delete("/grants/:id", DeleteGrant(d.Grants))

	admin.Post("/documents", UploadDocument(d.Documents))
	admin.Get("/documents", ListDocuments(d.Documents))
	admin.Get("/documents/:id", GetDocument(d.Documents))
	admin.Patch("/documents/:id", UpdateDocument(d.Documents))
	admin.Delete("/documents/:id", DeleteDocument(d.Documents))
}
