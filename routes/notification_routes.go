package routes

import (
	"unilink_server/controllers"
	"unilink_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up notification and friend-graph routes
func RegisterNotificationRoutes(r *mux.Router, notifications *services.NotificationService) {
	controller := controllers.NewNotificationController(notifications)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()
	notificationRouter.HandleFunc("", controller.HandleListNotifications).Methods("GET")
	notificationRouter.HandleFunc("/acknowledge", controller.HandleAcknowledge).Methods("POST")

	r.HandleFunc("/api/friends", controller.HandleGetFriends).Methods("GET")
}
