package handler

import (
	"net/http"
	"strconv"

	"sleepclash/backend/internal/logger"
	"sleepclash/backend/internal/middleware"
	"sleepclash/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// MessageResponse represents a generic success message.
type MessageResponse struct {
	Message string `json:"message" example:"Request sent successfully"`
}

// TokenResponse carries a freshly issued access token.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

func currentUserID(c *gin.Context) uint {
	return c.MustGet("userID").(uint)
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// parsePage reads page and limit query params, clamping limit to 100.
func parsePage(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// internalError logs err with the request id and writes a 500 with msg.
func internalError(c *gin.Context, msg string, err error) {
	logger.Log.Errorw(msg,
		"error", err,
		"request_id", middleware.GetRequestID(c),
		"path", c.FullPath(),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
