package routes

import (
	"unilink_server/controllers"
	"unilink_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up profile routes under /api/profile
func RegisterUserProfileRoutes(r *mux.Router, profiles *services.UserProfileService) {
	controller := controllers.NewUserProfileController(profiles)

	profileRouter := r.PathPrefix("/api/profile").Subrouter()
	profileRouter.HandleFunc("", controller.HandleGetProfile).Methods("GET")
	profileRouter.HandleFunc("", controller.HandleAddProfile).Methods("POST")
}
