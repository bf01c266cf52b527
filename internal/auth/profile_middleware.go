package auth

import (
	"errors"
	"net/http"

	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProfileMiddleware loads the authenticated user into "user".
// It must be used AFTER AuthMiddleware. Tokens of deleted accounts are rejected.
func ProfileMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID")
		if !exists {
			// This should not happen if AuthMiddleware is used before it
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		var user models.User
		err := database.DB.WithContext(c.Request.Context()).First(&user, userID.(uint)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}

		c.Set("user", user)
		c.Next()
	}
}
