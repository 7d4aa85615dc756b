package api

import (
	"errors"
	"net/http"

	"accounthub/user-api/middleware"
	"accounthub/user-api/model"
	"accounthub/user-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvatarServe streams the calling user's avatar straight from the blob
// store to the response. Pass-through only, no buffering here
func (a *API) AvatarServe(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet(middleware.UserKey).(*model.User)

	if user.Avatar == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "Image doesn't exist",
			"requestID": requestID,
		})
		return
	}

	blob, err := a.Avatars.Open(c.Request.Context(), user.Avatar)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The reference can outlive the blob when a replacement
			// half-failed. Same answer as no avatar at all
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Image doesn't exist",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open avatar blob", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer blob.Body.Close()

	c.DataFromReader(http.StatusOK, blob.Length, blob.ContentType, blob.Body, nil)
}
