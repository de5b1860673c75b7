package handler

import (
	"database/sql"
	_ "embed"

	"github.com/gofiber/fiber/v2"

	"edms/internal/directory"
	"edms/internal/http/middleware"
	"edms/internal/service"
)

// openapiSpec is compiled into the binary so /openapi.yaml serves correctly
// regardless of the process working directory.
//
//go:embed openapi.yaml
var openapiSpec []byte

// RegisterRoutes attaches the HTTP surface to the provided Fiber app. The
// employee surface under /api is covered by the identity gateway installed in
// main; the administrative surface carries its own operator-key check.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService, dir directory.Directory, adminKey string) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(openapiSpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	api := app.Group("/api")

	api.Get("/documents", ListDocuments(docSvc, dir))
	api.Post("/documents", UploadDocument(docSvc))
	api.Get("/documents/:id", GetDocument(docSvc, dir))
	api.Put("/documents/:id", UpdateDocument(docSvc))
	api.Delete("/documents/:id", DeleteDocument(docSvc))
	api.Post("/documents/:id/files", UpdateAttachments(docSvc))

	api.Get("/hr/department", DepartmentLookup(dir))

	admin := api.Group("/admin", middleware.AdminKey(adminKey))
	admin.Get("/documents", AdminListDocuments(docSvc))
	admin.Put("/documents/:id", AdminUpdateDocument(docSvc))
	admin.Delete("/documents/:id", AdminDeleteDocument(docSvc))
	admin.Post("/documents/:id/purge", PurgeDocument(docSvc))
}
