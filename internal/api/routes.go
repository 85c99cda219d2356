package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// loadTemplates parses the embedded page templates
func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// SetupRoutes sets up the page and API routes. Static assets are served
// from publicDir under /public.
func SetupRoutes(handler *Handler, publicDir string) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(Logger(handler.logger))

	router.SetHTMLTemplate(loadTemplates())
	router.Static("/public", publicDir)

	// Pages
	router.GET("/", handler.Index)
	router.GET("/me", handler.Me)

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/repos", handler.GetRepos)
		v1.GET("/runs", handler.GetRuns)
		v1.GET("/search", handler.Search)
	}

	return router
}
