package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepBody struct {
	ID           uint   `json:"id"`
	Date         string `json:"date"`
	TotalMinutes int    `json:"total_minutes"`
	RemMinutes   int    `json:"rem_minutes"`
}

func TestUpsertSleepRecord_Overwrites(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, _ := signUp(t, r, "alice")

	w := doRequest(r, http.MethodPut, "/api/v1/sleep", token, gin.H{
		"date": "2024-05-14", "total_minutes": 400, "rem_minutes": 80, "deep_minutes": 60,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first sleepBody
	decode(t, w, &first)
	assert.Equal(t, "2024-05-14", first.Date)

	// same UTC day through a timestamp with an offset
	w = doRequest(r, http.MethodPut, "/api/v1/sleep", token, gin.H{
		"date": "2024-05-14T22:30:00-01:00", "total_minutes": 410, "rem_minutes": 90, "deep_minutes": 60,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second sleepBody
	decode(t, w, &second)
	assert.Equal(t, "2024-05-14", second.Date)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 410, second.TotalMinutes)

	var page struct {
		Data []sleepBody `json:"data"`
	}
	decode(t, doRequest(r, http.MethodGet, "/api/v1/sleep", token, nil), &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 90, page.Data[0].RemMinutes)
}

func TestUpsertSleepRecord_Validation(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, _ := signUp(t, r, "alice")

	tests := []struct {
		name string
		body gin.H
	}{
		{"zero total", gin.H{"date": "2024-05-14", "total_minutes": 0}},
		{"negative total", gin.H{"date": "2024-05-14", "total_minutes": -5}},
		{"negative rem", gin.H{"date": "2024-05-14", "total_minutes": 300, "rem_minutes": -1}},
		{"negative deep", gin.H{"date": "2024-05-14", "total_minutes": 300, "deep_minutes": -1}},
		{"phases exceed total", gin.H{"date": "2024-05-14", "total_minutes": 100, "rem_minutes": 60, "deep_minutes": 60}},
		{"bad date", gin.H{"date": "14/05/2024", "total_minutes": 300}},
		{"missing date", gin.H{"total_minutes": 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPut, "/api/v1/sleep", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestListSleepRecords_Range(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, _ := signUp(t, r, "alice")

	for _, d := range []string{"2024-05-12", "2024-05-13", "2024-05-14", "2024-05-15"} {
		w := doRequest(r, http.MethodPut, "/api/v1/sleep", token, gin.H{"date": d, "total_minutes": 400})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var page struct {
		Data []sleepBody `json:"data"`
		Meta struct {
			TotalItems int64 `json:"total_items"`
		} `json:"meta"`
	}
	w := doRequest(r, http.MethodGet, "/api/v1/sleep?from=2024-05-13&to=2024-05-14", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &page)
	assert.EqualValues(t, 2, page.Meta.TotalItems)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "2024-05-14", page.Data[0].Date)
	assert.Equal(t, "2024-05-13", page.Data[1].Date)

	w = doRequest(r, http.MethodGet, "/api/v1/sleep?from=yesterday", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
