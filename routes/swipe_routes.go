package routes

import (
	"unilink_server/controllers"
	"unilink_server/services"

	"github.com/gorilla/mux"
)

// RegisterSwipeRoutes sets up routes for swipe operations under /api/swipe
func RegisterSwipeRoutes(r *mux.Router, swipes *services.SwipeService, matches *services.MatchService, sessions *services.SessionManager) {
	controller := controllers.NewSwipeController(swipes, matches, sessions)

	swipeRouter := r.PathPrefix("/api/swipe").Subrouter()
	swipeRouter.HandleFunc("", controller.HandleSwipe).Methods("POST")
	swipeRouter.HandleFunc("/shouldShow", controller.HandleShouldShow).Methods("GET")
}
