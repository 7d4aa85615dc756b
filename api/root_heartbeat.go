package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Validate only runs after the auth middleware let the request through,
// so reaching it at all means the token is good
func (a *API) Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
