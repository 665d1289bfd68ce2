package middleware

import (
	"net/http"

	"github.com/rs/cors"
	"puja-backend/internal/config"
)

// NewCORS builds the CORS layer from the configured origin, method
// and header lists. Credentials are allowed because the consoles send
// bearer tokens from the browser.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler
}
