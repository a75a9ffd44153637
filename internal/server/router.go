package server

import (
	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/pathway/internal/export"
)

func newRouter(h *handlers, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestContext(h.log))
	r.Use(corsMiddleware(origins))

	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.GET("/personas", h.personas)

		api.POST("/course", h.createCourse)
		api.GET("/course", h.getCourse)
		api.DELETE("/course", h.clearCourse)
		api.POST("/course/chapters/:n/visit", h.visitChapter)
		api.POST("/course/chapters/:n/complete", h.completeChapter)
		api.GET("/course/export.html", h.exportCourse(export.FormatHTML))
		api.GET("/course/export.pdf", h.exportCourse(export.FormatPDF))

		api.POST("/lessons", h.createLesson)
	}
	return r
}
