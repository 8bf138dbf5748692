package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS sets the given headers on every response, including the ones written
// by later middleware that abort the chain. Preflight requests are answered
// here with 200 and an empty body, before any rate limiting.
func CORS(headers map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range headers {
			c.Header(k, v)
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Content-Type", "application/json")
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
