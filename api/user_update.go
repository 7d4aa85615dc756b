package api

import (
	"net/http"

	"accounthub/user-api/middleware"
	"accounthub/user-api/model"
	"accounthub/user-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) UserUpdate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	user := c.MustGet(middleware.UserKey).(*model.User)

	var updates map[string]any
	if err := c.ShouldBind(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Any field outside the allow-list rejects the whole update. Nothing
	// is written for partially valid bodies
	if err := validators.UpdateFieldsValidator(updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if v, ok := updates["first_name"]; ok {
		s, ok := v.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "first_name must be a string",
				"requestID": requestID,
			})
			return
		}
		user.FirstName = s
	}

	if v, ok := updates["last_name"]; ok {
		s, ok := v.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "last_name must be a string",
				"requestID": requestID,
			})
			return
		}
		user.LastName = s
	}

	if v, ok := updates["email"]; ok {
		s, ok := v.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "email must be a string",
				"requestID": requestID,
			})
			return
		}

		s = validators.NormalizeEmail(s)

		if err := validators.EmailValidator(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		var count int64

		err := a.DB.Model(model.User{}).
			Where("email = ? AND id <> ?", s, user.ID).
			Count(&count).
			Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to check email uniqueness", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "This email is already registered. Please use a different email",
				"requestID": requestID,
			})
			return
		}

		user.Email = s
	}

	if v, ok := updates["password"]; ok {
		s, ok := v.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "password must be a string",
				"requestID": requestID,
			})
			return
		}

		if err := validators.PasswordValidator(s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		hash, err := a.Argon.GenerateFromPassword(s)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		user.PasswordHash = hash
	}

	if v, ok := updates["age"]; ok {
		// JSON numbers arrive as float64
		f, ok := v.(float64)
		if !ok || f != float64(int(f)) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "age must be an integer",
				"requestID": requestID,
			})
			return
		}

		if f < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Age can't be negative",
				"requestID": requestID,
			})
			return
		}

		user.Age = int(f)
	}

	if err := a.DB.Save(user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to save user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, user)
}
