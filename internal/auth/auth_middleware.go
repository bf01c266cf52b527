package auth

import (
	"net/http"
	"strings"

	"sleepclash/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// bearerUserID extracts and verifies the bearer token of the request.
func bearerUserID(c *gin.Context) (uint, bool) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	userID, err := jwt.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return userID, true
}

// AuthMiddleware rejects requests without a valid bearer token and sets "userID".
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := bearerUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}
