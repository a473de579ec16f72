package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS creates the CORS middleware for the import API. Browsers send statement uploads as
// multipart POSTs keyed by owner path, so no credentials or auth headers are involved; a
// caller-supplied X-Request-Id is allowed through so it reaches the request logger.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           600,
	})
}
