package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"unilink_server/services"
)

// SessionController handles sign-in/sign-out of the per-user session
// context
type SessionController struct {
	Sessions *services.SessionManager
}

// NewSessionController creates a new SessionController instance
func NewSessionController(sessions *services.SessionManager) *SessionController {
	return &SessionController{Sessions: sessions}
}

// HandleStartSession signs a user in and attaches their live match feed.
func (sc *SessionController) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	session, err := sc.Sessions.StartSession(context.Background(), request.UserID)
	if err != nil {
		log.Println("Error starting session:", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"message":   "Session started",
		"sessionId": session.ID,
		"userId":    session.UserID,
	})
}

// HandleEndSession signs a user out and tears down their feeds.
func (sc *SessionController) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	sc.Sessions.EndSession(request.UserID)
	writeJSON(w, map[string]string{"message": "Session ended"})
}
