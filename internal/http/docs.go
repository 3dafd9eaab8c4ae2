package http

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi/*.yaml
var openapiFS embed.FS

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%[1]s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: "%[2]s", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

func (h *Handler) registerDocs(docs *gin.RouterGroup) {
	for _, surface := range []struct{ name, title string }{
		{"user", "REST API - Users"},
		{"admin", "REST API - Admins"},
	} {
		document, err := openapiFS.ReadFile("openapi/" + surface.name + ".yaml")
		if err != nil {
			panic(err)
		}
		var parsed map[string]any
		if err := yaml.Unmarshal(document, &parsed); err != nil {
			panic(fmt.Sprintf("openapi/%s.yaml: %v", surface.name, err))
		}
		specPath := "/api/docs/" + surface.name + "/openapi.yaml"
		page := fmt.Sprintf(swaggerUIPage, surface.title, specPath)

		docs.GET("/"+surface.name, func(c *gin.Context) {
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		})
		docs.GET("/"+surface.name+"/openapi.yaml", func(c *gin.Context) {
			c.Data(http.StatusOK, "application/yaml", document)
		})
		docs.GET("/"+surface.name+"/openapi.json", func(c *gin.Context) {
			c.JSON(http.StatusOK, parsed)
		})
	}
}
