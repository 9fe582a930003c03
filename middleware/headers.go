// File: middleware/headers.go
package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets framing and sniffing headers on every response.
// frameAncestor, when non-empty, is the only origin allowed to embed the page.
func SecurityHeaders(frameAncestor string) gin.HandlerFunc {
	frame := "frame-ancestors 'self'"
	if frameAncestor != "" {
		frame += " " + frameAncestor
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Security-Policy", frame)
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Next()
	}
}
