package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultCSP = "default-src 'none'"
	// The print report loads the Kanit web font and runs its inline print bootstrap.
	printCSP = "default-src 'none'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; style-src 'unsafe-inline' https://fonts.googleapis.com; font-src https://fonts.gstatic.com; script-src 'unsafe-inline'"
)

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("X-XSS-Protection", "0")
		if isPrintDocument(c.Request.URL.Path) {
			c.Header("Content-Security-Policy", printCSP)
		} else {
			c.Header("Content-Security-Policy", defaultCSP)
		}
		c.Next()
	}
}

func isPrintDocument(path string) bool {
	return strings.HasSuffix(path, "/print") || (strings.HasPrefix(path, "/reports/jobs/") && strings.HasSuffix(path, "/download"))
}
