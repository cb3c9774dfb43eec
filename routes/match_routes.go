package routes

import (
	"unilink_server/controllers"
	"unilink_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for the match list under /api/matches
func RegisterMatchRoutes(r *mux.Router, feed *services.MatchFeed) {
	controller := controllers.NewMatchController(feed)

	r.HandleFunc("/api/matches", controller.HandleGetMatches).Methods("GET")
}
