package handler

import (
	"net/http"
	"time"

	"sleepclash/backend/internal/database"
	"sleepclash/backend/internal/hub"
	"sleepclash/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

const dateLayout = "2006-01-02"

// region --- DTOs ---

// SleepRecordInput is one night of measurements as uploaded by a device.
type SleepRecordInput struct {
	// Date is YYYY-MM-DD or an RFC 3339 timestamp; it is stored as 00:00 UTC of that day.
	Date         string `json:"date" binding:"required" example:"2024-05-14"`
	TotalMinutes int    `json:"total_minutes" binding:"required,gt=0" example:"452"`
	RemMinutes   int    `json:"rem_minutes" binding:"min=0" example:"95"`
	DeepMinutes  int    `json:"deep_minutes" binding:"min=0" example:"80"`
}

// SleepRecordResponse describes a stored night.
type SleepRecordResponse struct {
	ID           uint      `json:"id"`
	Date         string    `json:"date" example:"2024-05-14"`
	TotalMinutes int       `json:"total_minutes"`
	RemMinutes   int       `json:"rem_minutes"`
	DeepMinutes  int       `json:"deep_minutes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func newSleepRecordResponse(r models.SleepRecord) SleepRecordResponse {
	return SleepRecordResponse{
		ID:           r.ID,
		Date:         r.RecordedDate.UTC().Format(dateLayout),
		TotalMinutes: r.TotalMinutes,
		RemMinutes:   r.RemMinutes,
		DeepMinutes:  r.DeepMinutes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// endregion

// UpsertSleepRecord godoc
// @Summary      Upload a night of sleep
// @Description  Stores the night for the given date, overwriting any earlier upload for the same date.
// @Tags         sleep
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SleepRecordInput true "Night measurements"
// @Success      200  {object}  SleepRecordResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /sleep [put]
func UpsertSleepRecord(c *gin.Context) {
	user := currentUser(c)

	var input SleepRecordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.RemMinutes+input.DeepMinutes > input.TotalMinutes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rem_minutes and deep_minutes cannot exceed total_minutes"})
		return
	}

	date, ok := parseDate(input.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD or RFC 3339"})
		return
	}

	record := models.SleepRecord{
		UserID:       user.ID,
		RecordedDate: date,
		TotalMinutes: input.TotalMinutes,
		RemMinutes:   input.RemMinutes,
		DeepMinutes:  input.DeepMinutes,
	}
	err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recorded_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_minutes", "rem_minutes", "deep_minutes", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		internalError(c, "Failed to store sleep record", err)
		return
	}

	// Reload so an overwrite reports the original id and creation time.
	if err := database.DB.Where("user_id = ? AND recorded_date = ?", user.ID, date).First(&record).Error; err != nil {
		internalError(c, "Failed to load sleep record", err)
		return
	}

	if user.ClanID != nil {
		hub.GlobalHub.Broadcast(*user.ClanID, hub.Event{
			Type: hub.EventNightLogged,
			Payload: gin.H{
				"user_id": user.ID,
				"date":    date.Format(dateLayout),
			},
		})
	}

	c.JSON(http.StatusOK, newSleepRecordResponse(record))
}

// ListSleepRecords godoc
// @Summary      List own nights
// @Description  Lists the caller's nights, newest first, optionally bounded by an inclusive date range.
// @Tags         sleep
// @Produce      json
// @Security     BearerAuth
// @Param        from  query     string  false  "First date (YYYY-MM-DD), inclusive"
// @Param        to    query     string  false  "Last date (YYYY-MM-DD), inclusive"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedResponse[SleepRecordResponse]
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /sleep [get]
func ListSleepRecords(c *gin.Context) {
	userID := currentUserID(c)
	page, limit := parsePage(c)

	query := database.DB.Where("user_id = ?", userID)
	if from := c.Query("from"); from != "" {
		d, ok := parseDate(from)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date"})
			return
		}
		query = query.Where("recorded_date >= ?", d)
	}
	if to := c.Query("to"); to != "" {
		d, ok := parseDate(to)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date"})
			return
		}
		query = query.Where("recorded_date < ?", d.AddDate(0, 0, 1))
	}

	response, err := Paginate(query.Order("recorded_date DESC"), page, limit, newSleepRecordResponse)
	if err != nil {
		internalError(c, "Failed to retrieve sleep records", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return models.NormalizeDate(t), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.NormalizeDate(t), true
	}
	return time.Time{}, false
}
