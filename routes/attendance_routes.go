package routes

import (
	"unilink_server/controllers"
	"unilink_server/services"
	"unilink_server/socket"

	"github.com/gorilla/mux"
)

// RegisterAttendanceRoutes sets up event attendance routes under /api/events
func RegisterAttendanceRoutes(r *mux.Router, attendance *services.AttendanceService, notifications *services.NotificationService, profiles *services.UserProfileService, broadcaster *socket.Broadcaster) {
	controller := controllers.NewAttendanceController(attendance, notifications, profiles, broadcaster)

	eventRouter := r.PathPrefix("/api/events").Subrouter()
	eventRouter.HandleFunc("/join", controller.HandleJoin).Methods("POST")
	eventRouter.HandleFunc("/leave", controller.HandleLeave).Methods("POST")
	eventRouter.HandleFunc("/{eventId}/attendees", controller.HandleGetAttendees).Methods("GET")
	eventRouter.HandleFunc("/{eventId}/friendsAttending", controller.HandleFriendsAttending).Methods("GET")
}
