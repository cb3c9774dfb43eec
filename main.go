package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"unilink_server/metrics"
	"unilink_server/routes"
	"unilink_server/services"
	"unilink_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize the document store
	var store services.DocumentStore
	if os.Getenv("STORE_BACKEND") == "memory" {
		log.Println("Using in-memory document store")
		store = services.NewMemoryStore()
	} else {
		log.Println("Initializing DynamoDB client...")
		dynamoClient := services.InitializeDynamoDBClient()
		store = services.NewDynamoStore(&services.DynamoService{Client: dynamoClient})
		log.Println("DynamoDB client initialized.")
	}

	// Initialize Services
	profileService := &services.UserProfileService{Store: store}
	swipeService := services.NewSwipeService(store)
	matchService := &services.MatchService{Store: store, Swipes: swipeService}
	matchFeed := &services.MatchFeed{Store: store}
	notificationService := &services.NotificationService{Store: store, Profiles: profileService}
	attendanceService := services.NewAttendanceService(store)
	sessionManager := services.NewSessionManager(swipeService, matchService, matchFeed, notificationService)

	if err := attendanceService.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start attendance tracker: %v", err)
	}
	defer attendanceService.Close()

	// Initialize the socket server and wire match pushes into it
	socketServer := socket.NewSocketServer()
	broadcaster := &socket.Broadcaster{Server: socketServer}
	sessionManager.OnMatch = broadcaster.NotifyMatch
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to UniLink")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Metrics endpoint
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Socket.IO endpoint
	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterUserProfileRoutes(r, profileService)
	routes.RegisterSessionRoutes(r, sessionManager)
	routes.RegisterSwipeRoutes(r, swipeService, matchService, sessionManager)
	routes.RegisterMatchRoutes(r, matchFeed)
	routes.RegisterNotificationRoutes(r, notificationService)
	routes.RegisterAttendanceRoutes(r, attendanceService, notificationService, profileService, broadcaster)
	routes.RegisterS3Routes(r)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
