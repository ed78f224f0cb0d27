package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/citasmed/consultorio-backend/internal/citas"
	httpmiddleware "github.com/citasmed/consultorio-backend/internal/http/middleware"
	"github.com/citasmed/consultorio-backend/internal/webchat"
	"github.com/citasmed/consultorio-backend/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	CitasHandler       *citas.Handler
	WebchatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// Chat message rate limit, per client IP. Zero disables limiting.
	ChatRatePerSecond float64
	ChatBurst         int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.CitasHandler != nil {
		r.Route("/api/citas", func(api chi.Router) {
			api.Get("/", cfg.CitasHandler.List)
			api.Post("/", cfg.CitasHandler.Create)
			api.Get("/fecha/{fecha}", cfg.CitasHandler.ListByDate)
			api.Post("/disponibilidad", cfg.CitasHandler.CheckAvailability)
			api.With(httpmiddleware.AdminJWT(cfg.AdminAuthSecret)).Delete("/{id}", cfg.CitasHandler.Delete)
		})
	}

	if cfg.WebchatHandler != nil {
		r.Route("/webchat", func(chat chi.Router) {
			if cfg.ChatRatePerSecond > 0 {
				chat.Use(httpmiddleware.RateLimit(cfg.ChatRatePerSecond, cfg.ChatBurst))
			}
			chat.Get("/ws", cfg.WebchatHandler.HandleWebSocket)
			chat.Post("/message", cfg.WebchatHandler.HandleMessage)
			chat.Get("/history", cfg.WebchatHandler.HandleHistory)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
