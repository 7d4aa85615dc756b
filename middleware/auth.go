// Package middleware contains any custom middleware used in the app
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"accounthub/user-api/model"
	"accounthub/user-api/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Context keys set by the auth middleware for downstream handlers
const (
	UserKey      = "user"
	UserIDKey    = "userID"
	AuthTokenKey = "authToken"
)

// NewAuthMiddleware returns the authentication gate used on every
// protected route. A request passes only if it carries a bearer token
// with a valid signature AND that exact token is still listed in the
// user's active sessions. The raw token is kept on the context so a
// single-session logout can remove precisely the one it came in with
func NewAuthMiddleware(d *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		token, err := extractBearer(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Missing or malformed Authorization header",
				"requestID": requestID,
			})
			return
		}

		userID, err := security.VerifySessionToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid session token",
				"requestID": requestID,
			})

			zap.L().Debug("Rejected session token", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		// The signature only proves who minted the token, not that the
		// session is still alive. Logout works by deleting the row
		var count int64

		err = d.Model(model.SessionToken{}).
			Where("user_id = ? AND token = ?", userID, token).
			Count(&count).
			Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check session membership", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid session token",
				"requestID": requestID,
			})
			return
		}

		var user model.User

		err = d.Where("id = ?", userID).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":     "Invalid session token",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to load user", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, &user)
		c.Set(AuthTokenKey, token)
		c.Next()
	}
}

func extractBearer(r *http.Request) (string, error) {
	hdr := r.Header.Get("Authorization")

	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid Authorization header")
	}

	return parts[1], nil
}
