package routes

import (
	"unilink_server/controllers"
	"unilink_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up sign-in/sign-out routes under /api/session
func RegisterSessionRoutes(r *mux.Router, sessions *services.SessionManager) {
	controller := controllers.NewSessionController(sessions)

	sessionRouter := r.PathPrefix("/api/session").Subrouter()
	sessionRouter.HandleFunc("/start", controller.HandleStartSession).Methods("POST")
	sessionRouter.HandleFunc("/end", controller.HandleEndSession).Methods("POST")
}
