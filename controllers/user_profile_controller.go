package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"unilink_server/models"
	"unilink_server/services"
)

// UserProfileController exposes the profile collaborator over HTTP
type UserProfileController struct {
	Profiles *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(profiles *services.UserProfileService) *UserProfileController {
	return &UserProfileController{Profiles: profiles}
}

// HandleGetProfile retrieves a profile by userId.
func (pc *UserProfileController) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	profile, err := pc.Profiles.GetProfile(context.Background(), userID)
	if err != nil {
		log.Println("Error fetching profile:", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, profile)
}

// HandleAddProfile writes a profile document.
func (pc *UserProfileController) HandleAddProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if profile.UserID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	if err := pc.Profiles.AddProfile(context.Background(), profile); err != nil {
		log.Println("Error saving profile:", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "Profile saved"})
}
