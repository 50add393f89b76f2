package handler

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"securedoc/internal/service"
	"securedoc/internal/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// watermarkTiles is how many copies of the watermark cover the viewer.
const watermarkTiles = 60

type gatePage struct {
	PageTitle string
	Action    string
	Email     string
	Error     string
}

type errorPage struct {
	PageTitle string
	Heading   string
	Message   string
	Reload    bool
}

type viewerPage struct {
	PageTitle string
	View      *viewer.View
	Tiles     []struct{}
}

func render(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	// Gated pages must never be served from a shared cache.
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set("X-Robots-Tag", "noindex")
	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

func renderGate(c *fiber.Ctx, status int, email, message string) error {
	return render(c, status, "gate.html", gatePage{
		PageTitle: "Protected document",
		Action:    c.Path(),
		Email:     email,
		Error:     message,
	})
}

func renderViewer(c *fiber.Ctx, v *viewer.View) error {
	c.Set("Referrer-Policy", "no-referrer")
	return render(c, fiber.StatusOK, "viewer.html", viewerPage{
		PageTitle: v.Title,
		View:      v,
		Tiles:     make([]struct{}, watermarkTiles),
	})
}

// renderDenied shows the page for an access denial. Unknown errors are
// recorded for the access log and shown as a generic failure.
func renderDenied(c *fiber.Ctx, err error) error {
	ae, ok := denial(err)
	if !ok {
		recordError(c, err)
		return render(c, fiber.StatusInternalServerError, "error.html", errorPage{
			PageTitle: "Something went wrong",
			Heading:   "Something went wrong",
			Message:   "The document could not be opened right now.",
			Reload:    true,
		})
	}
	if ae.Reason == service.ReasonViewerLoadFailure || ae.Reason == service.ReasonUploadFailure {
		recordError(c, err)
	}
	status, _ := reasonStatus(ae.Reason)
	return render(c, status, "error.html", errorPage{
		PageTitle: "Document unavailable",
		Heading:   headings[ae.Reason],
		Message:   ae.Message,
		Reload:    ae.Reason == service.ReasonViewerLoadFailure,
	})
}

var headings = map[service.Reason]string{
	service.ReasonTokenMissing:        "Missing link",
	service.ReasonTokenNotFound:       "Invalid link",
	service.ReasonAccessDeactivated:   "Access deactivated",
	service.ReasonAccessExpired:       "Access expired",
	service.ReasonDocumentUnavailable: "Document unavailable",
	service.ReasonViewerLoadFailure:   "Failed to load document",
}
