package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/hub"
	"sleepclash/backend/internal/models"
	"sleepclash/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	DisplayName string `json:"display_name" binding:"required,max=64" example:"sleepyhead"`
	Email       string `json:"email" binding:"required,email" example:"test@example.com"`
	Password    string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email" example:"test@example.com"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// UpdateProfileInput holds the editable profile fields. Omitted fields are left unchanged.
type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=64" example:"sleepyhead"`
	AvatarURL   *string `json:"avatar_url" binding:"omitempty,max=1024" example:"https://example.com/a.png"`
}

// PublicUserResponse defines the structure for a user's public profile.
type PublicUserResponse struct {
	ID           uint                     `json:"id" example:"1"`
	DisplayName  *string                  `json:"display_name" example:"sleepyhead"`
	AvatarURL    *string                  `json:"avatar_url"`
	FriendsCount int64                    `json:"friends_count"`
	RelationToMe *models.FriendshipStatus `json:"relation_to_me,omitempty"`
	MeToRelation *models.FriendshipStatus `json:"me_to_relation,omitempty"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID           uint    `json:"id" example:"1"`
	DisplayName  *string `json:"display_name" example:"sleepyhead"`
	Email        *string `json:"email" example:"test@example.com"`
	AvatarURL    *string `json:"avatar_url"`
	ClanID       *uint   `json:"clan_id"`
	FriendsCount int64   `json:"friends_count"`
}

// endregion

// region --- Auth Handlers ---

// RegisterUser godoc
// @Summary      Register a new user
// @Description  Creates a new user and returns an authentication token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func RegisterUser(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing int64
	if err := database.DB.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		internalError(c, "Failed to check email", err)
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(c, "Failed to hash password", err)
		return
	}

	displayName := strings.TrimSpace(input.DisplayName)
	user := models.User{
		DisplayName:  &displayName,
		Email:        &email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		internalError(c, "Failed to create user", err)
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		internalError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusCreated, TokenResponse{Token: token})
}

// LoginUser godoc
// @Summary      Log in a user
// @Description  Authenticates a user with email and password, and returns a new token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  TokenResponse
// @Failure      400  {object}  ErrorResponse "Invalid input"
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Failure      500  {object}  ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	err := database.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		internalError(c, "Failed to load user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := jwt.GenerateToken(user.ID)
	if err != nil {
		internalError(c, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}

// endregion

// region --- User Handlers ---

// SearchUsers godoc
// @Summary      Search for users
// @Description  Searches for users by display name with pagination. The caller is never listed.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Search query for display name"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[PublicUserResponse]
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /users [get]
func SearchUsers(c *gin.Context) {
	viewerID := currentUserID(c)
	page, limit := parsePage(c)

	query := database.DB.Where("id <> ?", viewerID).Order("id")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("LOWER(display_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	response, err := Paginate(query, page, limit, func(u models.User) PublicUserResponse {
		return buildPublicUserResponse(u, viewerID)
	})
	if err != nil {
		internalError(c, "Failed to retrieve users", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUserByID godoc
// @Summary      Get user by ID
// @Description  Retrieves the public profile for a specific user by their ID, including relationship data.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func GetUserByID(c *gin.Context) {
	viewerID := currentUserID(c)
	targetUserID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	// If target is the same as viewer, answer with the private profile
	if viewerID == targetUserID {
		GetMe(c)
		return
	}

	var targetUser models.User
	if err := database.DB.First(&targetUser, targetUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, buildPublicUserResponse(targetUser, viewerID))
}

// GetMe godoc
// @Summary      Get current user's info
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, buildPrivateUserResponse(currentUser(c)))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Changes the display name and/or avatar URL. An empty avatar_url clears the avatar.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateProfileInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me [patch]
func UpdateMe(c *gin.Context) {
	user := currentUser(c)

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		updates["display_name"] = name
		user.DisplayName = &name
	}
	if input.AvatarURL != nil {
		if *input.AvatarURL != "" && !isHTTPURL(*input.AvatarURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "avatar_url must be an http(s) URL"})
			return
		}
		if *input.AvatarURL == "" {
			updates["avatar_url"] = nil
			user.AvatarURL = nil
		} else {
			updates["avatar_url"] = *input.AvatarURL
			user.AvatarURL = input.AvatarURL
		}
	}

	if len(updates) > 0 {
		if err := database.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			internalError(c, "Failed to update profile", err)
			return
		}
	}

	c.JSON(http.StatusOK, buildPrivateUserResponse(user))
}

// DeleteMe godoc
// @Summary      Delete current user's account
// @Description  Permanently deletes the account with its sleep records and friend edges, and leaves the clan.
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /users/me [delete]
func DeleteMe(c *gin.Context) {
	user := currentUser(c)

	var clanDeleted bool
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.SleepRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", user.ID, user.ID).Delete(&models.FriendEdge{}).Error; err != nil {
			return err
		}
		if user.ClanID != nil {
			deleted, err := leaveClan(tx, user)
			if err != nil {
				return err
			}
			clanDeleted = deleted
		}
		return tx.Unscoped().Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		internalError(c, "Failed to delete account", err)
		return
	}

	if user.ClanID != nil && !clanDeleted {
		hub.GlobalHub.Broadcast(*user.ClanID, hub.Event{
			Type:    hub.EventMemberLeft,
			Payload: gin.H{"user_id": user.ID},
		})
	}

	c.Status(http.StatusNoContent)
}

// endregion

// region --- Helpers ---

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func countFriends(userID uint) int64 {
	var friendsCount int64
	database.DB.Model(&models.FriendEdge{}).
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.StatusAccepted).
		Count(&friendsCount)
	return friendsCount
}

func buildPublicUserResponse(targetUser models.User, viewerID uint) PublicUserResponse {
	// Get relationship status between viewer and target
	var relationToMe, meToRelation models.FriendEdge
	var relationToMeStatus, meToRelationStatus *models.FriendshipStatus

	err := database.DB.Where("from_user_id = ? AND to_user_id = ?", targetUser.ID, viewerID).First(&relationToMe).Error
	if err == nil {
		relationToMeStatus = &relationToMe.Status
	}

	err = database.DB.Where("from_user_id = ? AND to_user_id = ?", viewerID, targetUser.ID).First(&meToRelation).Error
	if err == nil {
		meToRelationStatus = &meToRelation.Status
	}

	return PublicUserResponse{
		ID:           targetUser.ID,
		DisplayName:  targetUser.DisplayName,
		AvatarURL:    targetUser.AvatarURL,
		FriendsCount: countFriends(targetUser.ID),
		RelationToMe: relationToMeStatus,
		MeToRelation: meToRelationStatus,
	}
}

func buildPrivateUserResponse(user models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:           user.ID,
		DisplayName:  user.DisplayName,
		Email:        user.Email,
		AvatarURL:    user.AvatarURL,
		ClanID:       user.ClanID,
		FriendsCount: countFriends(user.ID),
	}
}

// endregion
