// File: middleware/tracing.go
package middleware

import (
	"net/http"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-gonic/gin"
)

// XRaySegment opens an X-Ray segment per request so upstream calls made with
// an xray-wrapped client attach to it as subsegments.
func XRaySegment(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, seg := xray.BeginSegment(c.Request.Context(), name)
		c.Request = c.Request.WithContext(ctx)
		_ = seg.AddAnnotation("route", c.FullPath())

		c.Next()

		status := c.Writer.Status()
		_ = seg.AddMetadata("status", status)
		if status >= http.StatusInternalServerError {
			seg.Fault = true
		} else if status >= http.StatusBadRequest {
			seg.Error = true
		}
		seg.Close(nil)
	}
}
