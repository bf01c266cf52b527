package handler

import (
	"net/http"

	"sleepclash/backend/internal/config"
	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/leaderboard"
	"sleepclash/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// LeaderboardQuery holds the query parameters of GET /leaderboards.
type LeaderboardQuery struct {
	Scope      string `form:"scope" binding:"omitempty,oneof=friends clan" example:"friends"`
	WeekOffset int    `form:"week_offset" binding:"min=0" example:"0"`
}

// GetLeaderboards godoc
// @Summary      Get weekly leaderboards
// @Description  Ranks the caller's friends (caller included) or clan over one Monday-based UTC week.
// @Description  Every day awards 3/2/1 points to the top three of each board; nights under 45 minutes are ignored.
// @Tags         leaderboards
// @Produce      json
// @Security     BearerAuth
// @Param        scope        query     string  false  "Population (friends, clan)" default(friends)
// @Param        week_offset  query     int     false  "Weeks back from the current one" default(0) minimum(0)
// @Success      200  {object}  leaderboard.Result
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /leaderboards [get]
func GetLeaderboards(c *gin.Context) {
	var query LeaderboardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scope, err := leaderboard.ParseScope(query.Scope)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shape, err := leaderboard.ParseWindowShape(config.AppConfig.LeaderboardWindow)
	if err != nil {
		internalError(c, "Invalid leaderboard window configuration", err)
		return
	}

	engine := leaderboard.NewEngine(
		repository.NewLeaderboardStore(database.DB),
		leaderboard.WithWindowShape(shape),
	)

	result, err := engine.Compute(c.Request.Context(), currentUserID(c), scope, query.WeekOffset)
	if err != nil {
		internalError(c, "Failed to compute leaderboards", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
