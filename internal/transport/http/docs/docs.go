// Package docs serves the OpenAPI description of the HTTP API and a Swagger UI
// page that renders it.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed openapi.json
var openAPI []byte

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Purchasing Hub API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: "/api-docs/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

// OpenAPI returns the raw OpenAPI 3 document.
func OpenAPI() []byte { return openAPI }

// Mount registers /api-docs and /api-docs/openapi.json.
func Mount(e *echo.Echo) {
	e.GET("/api-docs", func(c echo.Context) error {
		return c.HTML(http.StatusOK, swaggerPage)
	})
	e.GET("/api-docs/openapi.json", func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPI)
	})
}
