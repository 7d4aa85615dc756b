package api

import (
	"net/http"

	"accounthub/user-api/middleware"
	"accounthub/user-api/model"

	"github.com/gin-gonic/gin"
)

// UserMe reflects the user the auth middleware already resolved, no
// extra lookup needed
func (a *API) UserMe(c *gin.Context) {
	user := c.MustGet(middleware.UserKey).(*model.User)

	c.JSON(http.StatusOK, user)
}
