// README: Request logging middleware.
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request: method, path, client, status, latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log.Printf("[%s] %s %s %d %v %s",
			c.Request.Method,
			path,
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
			c.Errors.String(),
		)
	}
}
