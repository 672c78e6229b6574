package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the handler's routes behind the standard middleware stack
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Post("/search", h.Search)
	r.Get("/suggestions", h.Suggestions)
	r.Get("/hot", h.HotSearches)
	r.Post("/videos/refresh", h.RefreshVideos)

	r.Route("/history", func(r chi.Router) {
		r.Get("/", h.History)
		r.Delete("/", h.ClearHistory)
		r.Get("/queries", h.HistoryQueries)
		r.Delete("/queries", h.RemoveHistoryQuery)
		r.Delete("/items/{id}", h.RemoveHistoryItem)
		r.Get("/popular", h.PopularSearches)
		r.Get("/search", h.SearchHistory)
		r.Get("/categories", h.RecentCategories)
		r.Get("/stats", h.HistoryStats)
	})

	r.Get("/config", h.ClientConfig)
	r.Get("/health", h.Health)
	return r
}
