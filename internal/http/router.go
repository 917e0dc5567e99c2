// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fetii/internal/http/middleware"
)

// NewRouter wires the API routes. Both dependencies are required.
func NewRouter(h *Handler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/dataset/load", h.LoadDataset)
		api.GET("/dataset/summary", h.DatasetSummary)

		api.POST("/sessions", h.CreateSession)
		api.POST("/sessions/:id/questions", h.AskQuestion)
		api.GET("/sessions/:id/history", h.SessionHistory)

		api.GET("/destinations/search", h.SearchDestinations)
	}

	return r
}
