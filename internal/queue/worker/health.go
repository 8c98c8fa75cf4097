package worker

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusHandler reports readiness and the in-process counters of the worker.
func (w *Worker) StatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		state := "ready"
		if !w.Ready() {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}

		c.JSON(status, gin.H{
			"status": state,
			"stats":  w.stats.Snapshot(),
		})
	}
}
