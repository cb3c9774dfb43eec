package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"unilink_server/models"
	"unilink_server/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swipeStack struct {
	store    *services.MemoryStore
	sessions *services.SessionManager
	router   *mux.Router
}

func newSwipeStack(t *testing.T) *swipeStack {
	t.Helper()
	store := services.NewMemoryStore()
	profiles := &services.UserProfileService{Store: store}
	swipes := services.NewSwipeService(store)
	matches := &services.MatchService{Store: store, Swipes: swipes}
	feed := &services.MatchFeed{Store: store}
	notifications := &services.NotificationService{Store: store, Profiles: profiles}
	sessions := services.NewSessionManager(swipes, matches, feed, notifications)

	controller := NewSwipeController(swipes, matches, sessions)
	router := mux.NewRouter()
	router.HandleFunc("/api/swipe", controller.HandleSwipe).Methods("POST")
	router.HandleFunc("/api/swipe/shouldShow", controller.HandleShouldShow).Methods("GET")

	return &swipeStack{store: store, sessions: sessions, router: router}
}

func (s *swipeStack) signIn(t *testing.T, userID string) {
	t.Helper()
	_, err := s.sessions.StartSession(context.Background(), userID)
	require.NoError(t, err)
}

func postSwipe(t *testing.T, router *mux.Router, userID, targetID, decision string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"userId":       userID,
		"targetUserId": targetID,
		"decision":     decision,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/swipe", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleSwipeRequiresSession(t *testing.T) {
	stack := newSwipeStack(t)

	rec := postSwipe(t, stack.router, "alice", "bob", models.DecisionLike)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleSwipeLikeNoMatch(t *testing.T) {
	stack := newSwipeStack(t)
	stack.signIn(t, "alice")

	rec := postSwipe(t, stack.router, "alice", "bob", models.DecisionLike)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome services.MatchOutcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outcome))
	assert.False(t, outcome.Matched)
}

func TestHandleSwipeMutualLike(t *testing.T) {
	stack := newSwipeStack(t)
	stack.signIn(t, "alice")
	stack.signIn(t, "bob")

	rec := postSwipe(t, stack.router, "bob", "alice", models.DecisionLike)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postSwipe(t, stack.router, "alice", "bob", models.DecisionLike)
	require.Equal(t, http.StatusOK, rec.Code)

	var outcome services.MatchOutcome
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&outcome))
	require.True(t, outcome.Matched)
	assert.Equal(t, models.MatchID("alice", "bob"), outcome.Match.ID)
}

func TestHandleSwipeDuplicateConflicts(t *testing.T) {
	stack := newSwipeStack(t)
	stack.signIn(t, "alice")

	rec := postSwipe(t, stack.router, "alice", "bob", models.DecisionPass)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postSwipe(t, stack.router, "alice", "bob", models.DecisionLike)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandleSwipeValidatesPayload(t *testing.T) {
	stack := newSwipeStack(t)

	req := httptest.NewRequest(http.MethodPost, "/api/swipe", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	stack.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postSwipe(t, stack.router, "alice", "", models.DecisionLike)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleShouldShow(t *testing.T) {
	stack := newSwipeStack(t)
	stack.signIn(t, "alice")

	rec := postSwipe(t, stack.router, "alice", "bob", models.DecisionPass)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/swipe/shouldShow?userId=alice&candidateId=bob", nil)
	rec = httptest.NewRecorder()
	stack.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp["shouldShow"])

	req = httptest.NewRequest(http.MethodGet, "/api/swipe/shouldShow?userId=alice&candidateId=carol", nil)
	rec = httptest.NewRecorder()
	stack.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp["shouldShow"])
}
