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

type attendanceStack struct {
	store         *services.MemoryStore
	notifications *services.NotificationService
	router        *mux.Router
}

func newAttendanceStack(t *testing.T) *attendanceStack {
	t.Helper()
	store := services.NewMemoryStore()
	profiles := &services.UserProfileService{Store: store}
	notifications := &services.NotificationService{Store: store, Profiles: profiles}
	attendance := services.NewAttendanceService(store)
	require.NoError(t, attendance.Start(context.Background()))
	t.Cleanup(attendance.Close)

	controller := NewAttendanceController(attendance, notifications, profiles, nil)
	router := mux.NewRouter()
	router.HandleFunc("/api/events/join", controller.HandleJoin).Methods("POST")
	router.HandleFunc("/api/events/leave", controller.HandleLeave).Methods("POST")
	router.HandleFunc("/api/events/{eventId}/attendees", controller.HandleGetAttendees).Methods("GET")
	router.HandleFunc("/api/events/{eventId}/friendsAttending", controller.HandleFriendsAttending).Methods("GET")

	return &attendanceStack{store: store, notifications: notifications, router: router}
}

func postAttendance(t *testing.T, router *mux.Router, path, eventID, userID string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"eventId": eventID, "userId": userID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleJoinAndLeave(t *testing.T) {
	stack := newAttendanceStack(t)

	rec := postAttendance(t, stack.router, "/api/events/join", "e1", "alice")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp["attendeeCount"])

	// Re-joining stays at one attendee.
	rec = postAttendance(t, stack.router, "/api/events/join", "e1", "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(1), resp["attendeeCount"])

	rec = postAttendance(t, stack.router, "/api/events/leave", "e1", "alice")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(0), resp["attendeeCount"])
}

func TestHandleJoinValidatesPayload(t *testing.T) {
	stack := newAttendanceStack(t)

	rec := postAttendance(t, stack.router, "/api/events/join", "", "alice")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/events/join", bytes.NewReader([]byte("{")))
	rec = httptest.NewRecorder()
	stack.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetAttendees(t *testing.T) {
	stack := newAttendanceStack(t)

	postAttendance(t, stack.router, "/api/events/join", "e1", "alice")
	postAttendance(t, stack.router, "/api/events/join", "e1", "bob")

	req := httptest.NewRequest(http.MethodGet, "/api/events/e1/attendees", nil)
	rec := httptest.NewRecorder()
	stack.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		EventID       string   `json:"eventId"`
		AttendeeIDs   []string `json:"attendeeIds"`
		AttendeeCount int      `json:"attendeeCount"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "e1", resp.EventID)
	assert.Equal(t, 2, resp.AttendeeCount)
	assert.ElementsMatch(t, []string{"alice", "bob"}, resp.AttendeeIDs)
}

func TestHandleFriendsAttendingGatedOnAcknowledgement(t *testing.T) {
	stack := newAttendanceStack(t)
	ctx := context.Background()

	profiles := &services.UserProfileService{Store: stack.store}
	require.NoError(t, profiles.AddProfile(ctx, models.UserProfile{UserID: "bob", FullName: "Bob B"}))

	postAttendance(t, stack.router, "/api/events/join", "e1", "alice")
	postAttendance(t, stack.router, "/api/events/join", "e1", "bob")

	matchID := models.MatchID("alice", "bob")
	match := models.Match{ID: matchID, User1ID: "alice", User2ID: "bob"}
	require.NoError(t, stack.notifications.OnMatchObserved(ctx, match, "alice"))

	get := func() []string {
		req := httptest.NewRequest(http.MethodGet, "/api/events/e1/friendsAttending?userId=alice", nil)
		rec := httptest.NewRecorder()
		stack.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			FriendsAttending []string `json:"friendsAttending"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		return resp.FriendsAttending
	}

	// Unacknowledged match: bob is not surfaced as a friend.
	assert.Empty(t, get())

	require.NoError(t, stack.notifications.Acknowledge(ctx, matchID, "alice"))
	assert.Equal(t, []string{"bob"}, get())
}
