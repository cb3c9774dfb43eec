package controllers

import (
	"context"
	"log"
	"net/http"

	"unilink_server/models"
	"unilink_server/services"
)

// MatchController handles HTTP requests for the match list
type MatchController struct {
	Feed *services.MatchFeed
}

// NewMatchController creates a new MatchController instance
func NewMatchController(feed *services.MatchFeed) *MatchController {
	return &MatchController{Feed: feed}
}

// HandleGetMatches returns all matches involving a user.
func (mc *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	matches, err := mc.Feed.LoadInitialMatches(context.Background(), userID)
	if err != nil {
		log.Println("Error loading matches:", err)
		writeServiceError(w, err)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}
	writeJSON(w, map[string]interface{}{"matches": matches})
}
