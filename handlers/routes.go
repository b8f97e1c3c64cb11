package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/icco/podcast/lib/health"
)

// API is everything the router serves.
type API interface {
	Store
	health.Checker
}

// NewRouter wires the API routes onto a chi router.
func NewRouter(s API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", HandleIndex())
	r.Get("/health", health.Check(s))

	r.Get("/episodes", HandleEpisodes(s))
	r.Get("/episodes/{id}", HandleEpisode(s))
	r.Delete("/episodes/{id}", HandleDeleteEpisode(s))

	r.Get("/guests", HandleGuests(s))

	r.Post("/appearances", HandleCreateAppearance(s))

	return r
}
