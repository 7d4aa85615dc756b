package api

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"accounthub/user-api/middleware"
	"accounthub/user-api/model"
	"accounthub/user-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/jpg"}

// AvatarUpload replaces the calling user's avatar with the image from
// the "avatars" multipart field. Files outside the image allow-list are
// declined without storing anything, the request still succeeds with
// the user untouched
func (a *API) AvatarUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet(middleware.UserKey).(*model.User)

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid multipart form",
			"requestID": requestID,
		})

		zap.L().Debug("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	files := form.File["avatars"]
	if len(files) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	fh := files[0]

	contentType := fh.Header.Get("Content-Type")
	if !slices.Contains(allowedAvatarTypes, contentType) {
		// Declined, not failed. The user keeps whatever avatar they had
		zap.L().Debug("Declined avatar upload",
			zap.String("contentType", contentType),
			zap.String("requestID", requestID))

		c.JSON(http.StatusOK, user)
		return
	}

	// The old blob has to go before the reference moves. A failure here
	// is worth a warning but must not block the replacement
	if user.Avatar != "" {
		err := a.Avatars.Delete(c.Request.Context(), user.Avatar)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				zap.L().Warn("Previous avatar blob already gone",
					zap.String("filename", user.Avatar),
					zap.String("requestID", requestID))
			} else {
				zap.L().Warn("Failed to delete previous avatar blob",
					zap.Error(err),
					zap.String("filename", user.Avatar),
					zap.String("requestID", requestID))
			}
		}
	}

	f, err := fh.Open()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded file", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer f.Close()

	filename, err := a.Avatars.Upload(c.Request.Context(), f, fh.Size, contentType)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload avatar blob", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user.Avatar = filename

	if err := a.DB.Save(user).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save avatar reference", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, user)
}
