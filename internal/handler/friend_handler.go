package handler

import (
	"errors"
	"net/http"

	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetFriends godoc
// @Summary      List friends
// @Description  Lists every user with an accepted friendship with the caller, whichever side sent the request.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PublicUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me/friends [get]
func GetFriends(c *gin.Context) {
	viewerID := currentUserID(c)

	var edges []models.FriendEdge
	err := database.DB.
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", viewerID, viewerID, models.StatusAccepted).
		Preload("FromUser").Preload("ToUser").
		Find(&edges).Error
	if err != nil {
		internalError(c, "Failed to fetch friends", err)
		return
	}

	c.JSON(http.StatusOK, otherEndpoints(edges, viewerID))
}

// GetRelations godoc
// @Summary      Get pending friend requests
// @Description  Lists pending requests sent to (incoming) or by (outgoing) the caller. Without a direction both are returned.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        direction query     string  false  "Filter by direction (incoming, outgoing)"
// @Success      200       {array}   PublicUserResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /users/me/relations [get]
func GetRelations(c *gin.Context) {
	viewerID := currentUserID(c)

	query := database.DB.Where("status = ?", models.StatusPending)
	switch c.Query("direction") {
	case "incoming":
		query = query.Where("to_user_id = ?", viewerID)
	case "outgoing":
		query = query.Where("from_user_id = ?", viewerID)
	case "":
		query = query.Where("from_user_id = ? OR to_user_id = ?", viewerID, viewerID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be incoming or outgoing"})
		return
	}

	var edges []models.FriendEdge
	if err := query.Preload("FromUser").Preload("ToUser").Find(&edges).Error; err != nil {
		internalError(c, "Failed to fetch relations", err)
		return
	}

	c.JSON(http.StatusOK, otherEndpoints(edges, viewerID))
}

// SendRequest godoc
// @Summary      Send friend request
// @Description  Sends a friend request to another user. Refused when any edge already links the two users.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Target user not found"
// @Failure      409  {object}  ErrorResponse "Relation already exists"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func SendRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	if viewerID == targetUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot send request to yourself"})
		return
	}

	var target models.User
	if err := database.DB.Select("id").First(&target, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// One edge per unordered pair: check both storage directions.
		var existing int64
		if err := tx.Model(&models.FriendEdge{}).
			Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
				viewerID, targetUserID, targetUserID, viewerID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errRelationExists
		}

		return tx.Create(&models.FriendEdge{
			FromUserID: viewerID,
			ToUserID:   targetUserID,
			Status:     models.StatusPending,
		}).Error
	})
	if errors.Is(err, errRelationExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "Relation already exists"})
		return
	}
	if err != nil {
		internalError(c, "Failed to create relation", err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: "Request sent successfully"})
}

// AcceptRequest godoc
// @Summary      Accept friend request
// @Description  Accepts a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/accept [post]
func AcceptRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	requestingUserID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	result := database.DB.Model(&models.FriendEdge{}).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", requestingUserID, viewerID, models.StatusPending).
		Update("status", models.StatusAccepted)
	if result.Error != nil {
		internalError(c, "Failed to accept request", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline friend request
// @Description  Declines a pending friend request from another user.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Requesting User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Request not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/decline [post]
func DeclineRequest(c *gin.Context) {
	viewerID := currentUserID(c)
	requestingUserID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid requesting user ID"})
		return
	}

	result := database.DB.
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", requestingUserID, viewerID, models.StatusPending).
		Delete(&models.FriendEdge{})
	if result.Error != nil {
		internalError(c, "Failed to decline request", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pending request not found"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Request declined"})
}

// RemoveRelation godoc
// @Summary      Remove relation
// @Description  Cancels a sent request, or removes a friend regardless of who sent the original request.
// @Tags         friendship
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      200  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Relation not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /users/{id}/remove [post]
func RemoveRelation(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target user ID"})
		return
	}

	// Outgoing requests of any status, or accepted friendships in either direction.
	result := database.DB.
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ? AND status = ?)",
			viewerID, targetUserID, targetUserID, viewerID, models.StatusAccepted).
		Delete(&models.FriendEdge{})
	if result.Error != nil {
		internalError(c, "Failed to remove relation", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relation not found to remove"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Relation removed"})
}

var errRelationExists = errors.New("relation already exists")

// otherEndpoints maps edges to the public profile of the side that is not viewerID.
func otherEndpoints(edges []models.FriendEdge, viewerID uint) []PublicUserResponse {
	userResponses := make([]PublicUserResponse, 0, len(edges))
	for _, e := range edges {
		other := e.FromUser
		if e.FromUserID == viewerID {
			other = e.ToUser
		}
		// Avoid adding empty users if a preload was missed
		if other.ID == 0 {
			continue
		}
		userResponses = append(userResponses, buildPublicUserResponse(other, viewerID))
	}
	return userResponses
}
