package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userList []struct {
	ID uint `json:"id"`
}

func TestFriendRequestLifecycle(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	aliceToken, aliceID := signUp(t, r, "alice")
	bobToken, bobID := signUp(t, r, "bob")

	toBob := fmt.Sprintf("/api/v1/users/%d", bobID)
	toAlice := fmt.Sprintf("/api/v1/users/%d", aliceID)

	w := doRequest(r, http.MethodPost, toBob+"/request", aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// one edge per pair, whichever direction
	w = doRequest(r, http.MethodPost, toAlice+"/request", bobToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doRequest(r, http.MethodPost, toBob+"/request", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var incoming userList
	decode(t, doRequest(r, http.MethodGet, "/api/v1/users/me/relations?direction=incoming", bobToken, nil), &incoming)
	require.Len(t, incoming, 1)
	assert.Equal(t, aliceID, incoming[0].ID)

	// only the addressee can accept
	w = doRequest(r, http.MethodPost, toBob+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(r, http.MethodPost, toAlice+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, tc := range []struct {
		token string
		want  uint
	}{{aliceToken, bobID}, {bobToken, aliceID}} {
		var friends userList
		decode(t, doRequest(r, http.MethodGet, "/api/v1/users/me/friends", tc.token, nil), &friends)
		require.Len(t, friends, 1)
		assert.Equal(t, tc.want, friends[0].ID)
	}

	// the addressee can unfriend too
	w = doRequest(r, http.MethodPost, toAlice+"/remove", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var friends userList
	decode(t, doRequest(r, http.MethodGet, "/api/v1/users/me/friends", aliceToken, nil), &friends)
	assert.Empty(t, friends)
}

func TestSendRequest_Errors(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, id := signUp(t, r, "alice")

	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", id), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/users/999/request", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/users/x/request", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeclineRequest(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	aliceToken, aliceID := signUp(t, r, "alice")
	bobToken, bobID := signUp(t, r, "bob")

	doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bobID), aliceToken, nil)

	w := doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/decline", aliceID), bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/decline", aliceID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// a declined request can be sent again
	w = doRequest(r, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestGetRelations_BadDirection(t *testing.T) {
	r, _ := setupRouter(t, testConfig())
	token, _ := signUp(t, r, "alice")

	w := doRequest(r, http.MethodGet, "/api/v1/users/me/relations?direction=sideways", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
