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

// SwipeController handles HTTP requests for swipe decisions
type SwipeController struct {
	Swipes   *services.SwipeService
	Matches  *services.MatchService
	Sessions *services.SessionManager
}

// NewSwipeController creates a new SwipeController instance
func NewSwipeController(swipes *services.SwipeService, matches *services.MatchService, sessions *services.SessionManager) *SwipeController {
	return &SwipeController{Swipes: swipes, Matches: matches, Sessions: sessions}
}

// HandleSwipe records a like or pass and, for likes, reports the match
// outcome.
func (sc *SwipeController) HandleSwipe(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID   string `json:"userId"`
		TargetID string `json:"targetUserId"`
		Decision string `json:"decision"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.UserID == "" || request.TargetID == "" || request.Decision == "" {
		http.Error(w, "userId, targetUserId, and decision are required", http.StatusBadRequest)
		return
	}
	if request.Decision != models.DecisionLike && request.Decision != models.DecisionPass {
		http.Error(w, "decision must be like or pass", http.StatusBadRequest)
		return
	}

	if _, err := sc.Sessions.Session(request.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	ctx := context.Background()

	if request.Decision == models.DecisionPass {
		if _, err := sc.Swipes.RecordSwipe(ctx, request.UserID, request.TargetID, models.DecisionPass); err != nil {
			log.Println("Error recording pass:", err)
			writeServiceError(w, err)
			return
		}
		metrics.SwipesTotal.WithLabelValues(models.DecisionPass).Inc()
		writeJSON(w, services.MatchOutcome{})
		return
	}

	outcome, err := sc.Matches.ProcessRightSwipe(ctx, request.UserID, request.TargetID)
	if err != nil {
		log.Println("Error processing right swipe:", err)
		writeServiceError(w, err)
		return
	}
	metrics.SwipesTotal.WithLabelValues(models.DecisionLike).Inc()
	if outcome.Matched {
		metrics.MatchesCreatedTotal.Inc()
	}
	writeJSON(w, outcome)
}

// HandleShouldShow reports whether a candidate profile should still be
// shown to a user.
func (sc *SwipeController) HandleShouldShow(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	candidateID := r.URL.Query().Get("candidateId")
	if userID == "" || candidateID == "" {
		http.Error(w, "userId and candidateId are required", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]bool{
		"shouldShow": sc.Swipes.ShouldShowProfile(userID, candidateID),
	})
}
