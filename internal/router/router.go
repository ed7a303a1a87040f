package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"spaceweather-backend/internal/handlers"
	"spaceweather-backend/internal/middleware"
	"spaceweather-backend/internal/websocket"
)

func New(
	chatHandler *handlers.ChatHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/meta", chatHandler.Meta)

		// ──── Chat Sessions ────
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", chatHandler.StartSession)
			r.Get("/{id}", chatHandler.GetSession)
			r.Delete("/{id}", chatHandler.EndSession)
			r.Post("/{id}/messages", chatHandler.SendMessage)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
