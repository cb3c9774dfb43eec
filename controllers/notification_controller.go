package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"unilink_server/metrics"
	"unilink_server/models"
	"unilink_server/services"
)

// NotificationController handles HTTP requests for match notifications
// and the derived friend graph
type NotificationController struct {
	Notifications *services.NotificationService
}

// NewNotificationController creates a new NotificationController instance
func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// HandleListNotifications returns all notifications for a viewer.
func (nc *NotificationController) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	notifications, err := nc.Notifications.ListNotifications(context.Background(), userID)
	if err != nil {
		log.Println("Error listing notifications:", err)
		writeServiceError(w, err)
		return
	}
	if notifications == nil {
		notifications = []models.MatchNotification{}
	}
	writeJSON(w, map[string]interface{}{"notifications": notifications})
}

// HandleAcknowledge marks a viewer's match notification as read,
// promoting the match into the visible friend graph.
func (nc *NotificationController) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string `json:"userId"`
		MatchID string `json:"matchId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.MatchID == "" {
		http.Error(w, "userId and matchId are required", http.StatusBadRequest)
		return
	}

	if err := nc.Notifications.Acknowledge(context.Background(), request.MatchID, request.UserID); err != nil {
		log.Println("Error acknowledging notification:", err)
		writeServiceError(w, err)
		return
	}
	metrics.NotificationsAcknowledgedTotal.Inc()
	writeJSON(w, map[string]string{"message": "Notification acknowledged"})
}

// HandleGetFriends returns the viewer's friend graph: counterparts of
// acknowledged matches.
func (nc *NotificationController) HandleGetFriends(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	friends, err := nc.Notifications.Friends(context.Background(), userID)
	if err != nil {
		log.Println("Error deriving friends:", err)
		writeServiceError(w, err)
		return
	}

	ids := make([]string, 0, len(friends))
	for id := range friends {
		ids = append(ids, id)
	}
	writeJSON(w, map[string]interface{}{"friends": ids})
}
