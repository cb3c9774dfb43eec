package routes

import (
	"unilink_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up presigned URL routes for event cover photos
func RegisterS3Routes(r *mux.Router) {
	r.HandleFunc("/api/s3/uploadURL", controllers.HandleGenerateUploadURL).Methods("GET")
	r.HandleFunc("/api/s3/readURL", controllers.HandleGenerateReadURL).Methods("GET")
}
