package api

import (
	"net/http"

	"accounthub/user-api/middleware"
	"accounthub/user-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLogout ends exactly the session the request was authenticated
// with. Other sessions of the same user stay valid
func (a *API) UserLogout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet(middleware.UserIDKey).(string)
	token := c.MustGet(middleware.AuthTokenKey).(string)

	err := a.DB.
		Where("user_id = ? AND token = ?", userID, token).
		Delete(model.SessionToken{}).
		Error
	if err != nil {
		c.Status(http.StatusInternalServerError)

		zap.L().Error("Failed to remove session token", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusOK)
}

// UserLogoutAll empties the user's session list. Every token issued so
// far stops being accepted, signatures notwithstanding
func (a *API) UserLogoutAll(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet(middleware.UserIDKey).(string)

	err := a.DB.
		Where("user_id = ?", userID).
		Delete(model.SessionToken{}).
		Error
	if err != nil {
		c.Status(http.StatusInternalServerError)

		zap.L().Error("Failed to remove session tokens", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusOK)
}
