package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/angelmondragon/sellercenter-backend/pkg/config"
)

// CORS applies the configured origin allowlist.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-Id", "X-Requested-Count", "X-Affected-Count", "X-SC-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
