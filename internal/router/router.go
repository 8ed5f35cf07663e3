package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ahaideveloper150-collab/brainbolt3/internal/handlers"
	"github.com/ahaideveloper150-collab/brainbolt3/internal/middleware"
)

func New(
	limiter *middleware.RateLimiter,
	formatHandler *handlers.FormatHandler,
	mcqHandler *handlers.MCQHandler,
	flashcardHandler *handlers.FlashcardHandler,
	boosterHandler *handlers.BoosterHandler,
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
		r.Use(limiter.Middleware)

		r.Post("/format", formatHandler.Format)
		r.Post("/mcq", mcqHandler.Generate)
		r.Post("/flashcards", flashcardHandler.Generate)
		r.Post("/concept-booster", boosterHandler.Step)
	})

	return r
}
