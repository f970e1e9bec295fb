package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the liveness probe. Unconditional by design: it reports that
// the process is serving, not that its collaborators are reachable.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
