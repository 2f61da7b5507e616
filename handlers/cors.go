package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS sets permissive CORS headers and answers preflight requests. The
// browser needs Content-Disposition exposed to name downloaded files.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, "+SessionHeader)
		h.Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
