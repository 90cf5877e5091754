package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/config"
)

// NewCORS builds the CORS middleware from configuration. Preflight requests for
// origins, methods or headers outside the configured lists get no CORS headers.
func NewCORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
