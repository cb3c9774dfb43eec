package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"unilink_server/metrics"
	"unilink_server/models"
	"unilink_server/services"
	"unilink_server/socket"

	"github.com/gorilla/mux"
)

// AttendanceController handles HTTP requests for event attendance
type AttendanceController struct {
	Attendance    *services.AttendanceService
	Notifications *services.NotificationService
	Profiles      *services.UserProfileService
	Broadcaster   *socket.Broadcaster
}

// NewAttendanceController creates a new AttendanceController instance
func NewAttendanceController(attendance *services.AttendanceService, notifications *services.NotificationService, profiles *services.UserProfileService, broadcaster *socket.Broadcaster) *AttendanceController {
	return &AttendanceController{
		Attendance:    attendance,
		Notifications: notifications,
		Profiles:      profiles,
		Broadcaster:   broadcaster,
	}
}

type attendanceRequest struct {
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
}

func decodeAttendanceRequest(w http.ResponseWriter, r *http.Request) (attendanceRequest, bool) {
	var request attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return request, false
	}
	if request.EventID == "" || request.UserID == "" {
		http.Error(w, "eventId and userId are required", http.StatusBadRequest)
		return request, false
	}
	return request, true
}

// HandleJoin adds the user to the event's attendee set. The optimistic
// local update is reverted if the remote write fails.
func (ac *AttendanceController) HandleJoin(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeAttendanceRequest(w, r)
	if !ok {
		return
	}

	revert, err := ac.Attendance.Join(context.Background(), request.EventID, request.UserID)
	if err != nil {
		revert()
		metrics.AttendanceOpsTotal.WithLabelValues("join", "error").Inc()
		log.Println("Error joining event:", err)
		writeServiceError(w, err)
		return
	}
	metrics.AttendanceOpsTotal.WithLabelValues("join", "ok").Inc()

	count := ac.Attendance.AttendeeCount(request.EventID)
	if ac.Broadcaster != nil {
		ac.Broadcaster.NotifyAttendance(request.EventID, count)
	}
	writeJSON(w, map[string]interface{}{
		"message":       "Joined event",
		"attendeeCount": count,
	})
}

// HandleLeave removes the user from the event's attendee set.
func (ac *AttendanceController) HandleLeave(w http.ResponseWriter, r *http.Request) {
	request, ok := decodeAttendanceRequest(w, r)
	if !ok {
		return
	}

	revert, err := ac.Attendance.Leave(context.Background(), request.EventID, request.UserID)
	if err != nil {
		revert()
		metrics.AttendanceOpsTotal.WithLabelValues("leave", "error").Inc()
		log.Println("Error leaving event:", err)
		writeServiceError(w, err)
		return
	}
	metrics.AttendanceOpsTotal.WithLabelValues("leave", "ok").Inc()

	count := ac.Attendance.AttendeeCount(request.EventID)
	if ac.Broadcaster != nil {
		ac.Broadcaster.NotifyAttendance(request.EventID, count)
	}
	writeJSON(w, map[string]interface{}{
		"message":       "Left event",
		"attendeeCount": count,
	})
}

// HandleGetAttendees returns the cached attendee set for an event.
func (ac *AttendanceController) HandleGetAttendees(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	if eventID == "" {
		http.Error(w, "eventId is required", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"eventId":       eventID,
		"attendeeIds":   ac.Attendance.Attendees(eventID),
		"attendeeCount": ac.Attendance.AttendeeCount(eventID),
	})
}

// HandleFriendsAttending intersects the event's attendees with the
// caller's acknowledged-match friend set, enriched with profiles.
func (ac *AttendanceController) HandleFriendsAttending(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	userID := r.URL.Query().Get("userId")
	if eventID == "" || userID == "" {
		http.Error(w, "eventId and userId are required", http.StatusBadRequest)
		return
	}

	friends, err := ac.Notifications.Friends(context.Background(), userID)
	if err != nil {
		log.Println("Error deriving friends:", err)
		writeServiceError(w, err)
		return
	}

	attending := ac.Attendance.FriendsAttending(eventID, friends)
	ids := make([]string, 0, len(attending))
	for id := range attending {
		ids = append(ids, id)
	}

	profiles, err := ac.Profiles.GetProfiles(context.Background(), ids)
	if err != nil {
		log.Println("Error enriching friend profiles:", err)
		profiles = []models.UserProfile{}
	}

	writeJSON(w, map[string]interface{}{
		"eventId":          eventID,
		"friendsAttending": ids,
		"profiles":         profiles,
	})
}
