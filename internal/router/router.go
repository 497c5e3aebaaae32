package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"treasuremap-backend/internal/handlers"
	"treasuremap-backend/internal/middleware"
	"treasuremap-backend/internal/websocket"
)

// New wires every route. wsHub may be nil, in which case the diagnostics
// stream is not mounted.
func New(
	logger *zap.Logger,
	jwtAuth *middleware.JWTAuth,
	operatorLimiter *middleware.RateLimiter,
	chatHandler *handlers.ChatHandler,
	diagnosticsHandler *handlers.DiagnosticsHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Path the portfolio frontend posts to.
	r.Post("/api/chat", chatHandler.Chat)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)

		// ──── Operator diagnostics ────
		r.Route("/diagnostics", func(r chi.Router) {
			r.Use(operatorLimiter.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Get("/me", diagnosticsHandler.Me)
			})

			if wsHub != nil {
				r.Get("/ws", wsHub.HandleWebSocket)
			}
		})
	})

	return r
}
