package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports liveness of the gateway itself. The remote hospital API is
// deliberately not probed here; its failures surface per call.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
