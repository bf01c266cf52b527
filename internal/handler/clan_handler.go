package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/hub"
	"sleepclash/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// region --- DTOs ---

// ClanInput holds the name of a new clan.
type ClanInput struct {
	Name string `json:"name" binding:"required,min=3,max=64" example:"Night Owls"`
}

// JoinClanInput holds the join code of an existing clan.
type JoinClanInput struct {
	Code string `json:"code" binding:"required" example:"3F9A1C2B"`
}

// ClanResponse describes a clan and its current members.
type ClanResponse struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	JoinCode  string               `json:"join_code"`
	CreatorID uint                 `json:"creator_id"`
	Members   []PublicUserResponse `json:"members"`
}

func newClanResponse(clan models.Clan, viewerID uint) ClanResponse {
	members := make([]PublicUserResponse, 0, len(clan.Members))
	for _, member := range clan.Members {
		members = append(members, buildPublicUserResponse(member, viewerID))
	}
	return ClanResponse{
		ID:        clan.ID,
		Name:      clan.Name,
		JoinCode:  clan.JoinCode,
		CreatorID: clan.CreatorID,
		Members:   members,
	}
}

// endregion

// CreateClan godoc
// @Summary      Create a new clan
// @Description  Creates a clan with a generated join code and makes the creator its first member.
// @Tags         clans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ClanInput true "Clan Info"
// @Success      201  {object}  ClanResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "User is already in a clan or name taken"
// @Failure      500  {object}  ErrorResponse
// @Router       /clans [post]
func CreateClan(c *gin.Context) {
	user := currentUser(c)
	if user.ClanID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already in a clan"})
		return
	}

	var input ClanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(input.Name)

	var taken int64
	if err := database.DB.Model(&models.Clan{}).Where("name = ?", name).Count(&taken).Error; err != nil {
		internalError(c, "Failed to check clan name", err)
		return
	}
	if taken > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Clan name already taken"})
		return
	}

	clan := models.Clan{
		Name:      name,
		JoinCode:  newJoinCode(),
		CreatorID: user.ID,
	}

	// Use a transaction to ensure both clan creation and user update succeed
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&clan).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).Update("clan_id", clan.ID).Error
	})
	if err != nil {
		internalError(c, "Failed to create clan", err)
		return
	}

	if err := database.DB.Preload("Members").First(&clan, clan.ID).Error; err != nil {
		internalError(c, "Failed to load clan", err)
		return
	}

	c.JSON(http.StatusCreated, newClanResponse(clan, user.ID))
}

// JoinClan godoc
// @Summary      Join a clan
// @Description  Joins the clan identified by the given join code.
// @Tags         clans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body JoinClanInput true "Join code"
// @Success      200  {object}  ClanResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Clan not found"
// @Failure      409  {object}  ErrorResponse "User is already in a clan"
// @Failure      500  {object}  ErrorResponse
// @Router       /clans/join [post]
func JoinClan(c *gin.Context) {
	user := currentUser(c)
	if user.ClanID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already in a clan"})
		return
	}

	var input JoinClanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var clan models.Clan
	err := database.DB.Where("join_code = ?", strings.ToUpper(strings.TrimSpace(input.Code))).First(&clan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Clan not found"})
		return
	}
	if err != nil {
		internalError(c, "Failed to load clan", err)
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("clan_id", clan.ID).Error; err != nil {
		internalError(c, "Failed to join clan", err)
		return
	}

	hub.GlobalHub.Broadcast(clan.ID, hub.Event{
		Type:    hub.EventMemberJoined,
		Payload: gin.H{"user_id": user.ID, "display_name": user.DisplayName},
	})

	if err := database.DB.Preload("Members").First(&clan, clan.ID).Error; err != nil {
		internalError(c, "Failed to load clan", err)
		return
	}
	c.JSON(http.StatusOK, newClanResponse(clan, user.ID))
}

// LeaveClan godoc
// @Summary      Leave the current clan
// @Description  Leaves the caller's clan. The clan is deleted when its last member leaves.
// @Tags         clans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User is not in a clan"
// @Failure      500  {object}  ErrorResponse
// @Router       /clans/leave [post]
func LeaveClan(c *gin.Context) {
	user := currentUser(c)
	if user.ClanID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not in a clan"})
		return
	}

	var deleted bool
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = leaveClan(tx, user)
		return err
	})
	if err != nil {
		internalError(c, "Failed to leave clan", err)
		return
	}

	if deleted {
		c.JSON(http.StatusOK, MessageResponse{Message: "Left clan; clan deleted"})
		return
	}

	hub.GlobalHub.Broadcast(*user.ClanID, hub.Event{
		Type:    hub.EventMemberLeft,
		Payload: gin.H{"user_id": user.ID},
	})
	c.JSON(http.StatusOK, MessageResponse{Message: "Left clan"})
}

// GetMyClan godoc
// @Summary      Get the current clan
// @Description  Returns the caller's clan with its members.
// @Tags         clans
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ClanResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User is not in a clan"
// @Failure      500  {object}  ErrorResponse
// @Router       /clans/me [get]
func GetMyClan(c *gin.Context) {
	user := currentUser(c)
	if user.ClanID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not in a clan"})
		return
	}

	var clan models.Clan
	if err := database.DB.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).First(&clan, *user.ClanID).Error; err != nil {
		internalError(c, "Failed to load clan", err)
		return
	}

	c.JSON(http.StatusOK, newClanResponse(clan, user.ID))
}

// ClanEvents godoc
// @Summary      Stream clan events
// @Description  Server-sent events for the caller's clan: member_joined, member_left and night_logged.
// @Tags         clans
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string "event stream"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "User is not in a clan"
// @Router       /clans/me/events [get]
func ClanEvents(c *gin.Context) {
	user := currentUser(c)
	if user.ClanID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not in a clan"})
		return
	}
	clanID := *user.ClanID

	client := make(hub.Client, 16)
	hub.GlobalHub.Subscribe(clanID, client)
	defer hub.GlobalHub.Unsubscribe(clanID, client)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client:
			if !ok {
				return false
			}
			c.SSEvent("message", string(msg))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// leaveClan clears user's clan and deletes the clan if nobody is left in it.
// It reports whether the clan was deleted.
func leaveClan(tx *gorm.DB, user models.User) (bool, error) {
	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("clan_id", nil).Error; err != nil {
		return false, err
	}

	var remaining int64
	if err := tx.Model(&models.User{}).Where("clan_id = ?", *user.ClanID).Count(&remaining).Error; err != nil {
		return false, err
	}
	if remaining > 0 {
		return false, nil
	}

	if err := tx.Unscoped().Delete(&models.Clan{}, *user.ClanID).Error; err != nil {
		return false, err
	}
	return true, nil
}

func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
}
