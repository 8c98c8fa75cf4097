package middlewares

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes caps request bodies at limit. A declared Content-Length over
// the cap is refused before the handler runs; anything else is cut off while
// reading and surfaces as a bind error.
func MaxBodyBytes(limit int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > limit {
			abortWithError(ctx, http.StatusRequestEntityTooLarge, "body_too_large",
				"Request body must not exceed "+strconv.FormatInt(limit, 10)+" bytes")
			return
		}

		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, limit)

		ctx.Next()
	}
}
