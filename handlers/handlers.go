package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/icco/podcast/lib/store"
	"github.com/icco/podcast/lib/validation"
	"github.com/icco/podcast/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Store is the repository the handlers read from and write to.
type Store interface {
	ListEpisodes(ctx context.Context) ([]models.Episode, error)
	GetEpisode(ctx context.Context, id uint) (*models.Episode, error)
	DeleteEpisode(ctx context.Context, id uint) error
	ListGuests(ctx context.Context) ([]models.Guest, error)
	CreateAppearance(ctx context.Context, rating int, episodeID, guestID uint) (*models.Appearance, error)
}

func writeJSON(w http.ResponseWriter, body any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
	}
}

func HandleIndex() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]string{"message": "Welcome to the Podcast API"}, http.StatusOK)
	}
}

func HandleEpisodes(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		episodes, err := s.ListEpisodes(req.Context())
		if err != nil {
			slog.ErrorContext(req.Context(), "Failed to list episodes", slog.Any("error", err))
			validation.WriteError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]*EpisodeSummary, 0, len(episodes))
		for i := range episodes {
			out = append(out, newEpisodeSummary(&episodes[i]))
		}
		writeJSON(w, out, http.StatusOK)
	}
}

func HandleEpisode(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, ok := episodeID(req)
		if !ok {
			validation.WriteError(w, "Episode not found", http.StatusNotFound)
			return
		}

		episode, err := s.GetEpisode(req.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				validation.WriteError(w, "Episode not found", http.StatusNotFound)
				return
			}
			slog.ErrorContext(req.Context(), "Failed to get episode", slog.Uint64("id", uint64(id)), slog.Any("error", err))
			validation.WriteError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, newEpisodeDetail(episode), http.StatusOK)
	}
}

func HandleDeleteEpisode(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id, ok := episodeID(req)
		if !ok {
			validation.WriteError(w, "Episode not found", http.StatusNotFound)
			return
		}

		if err := s.DeleteEpisode(req.Context(), id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				validation.WriteError(w, "Episode not found", http.StatusNotFound)
				return
			}
			slog.ErrorContext(req.Context(), "Failed to delete episode", slog.Uint64("id", uint64(id)), slog.Any("error", err))
			validation.WriteError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleGuests(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		guests, err := s.ListGuests(req.Context())
		if err != nil {
			slog.ErrorContext(req.Context(), "Failed to list guests", slog.Any("error", err))
			validation.WriteError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		out := make([]*GuestSummary, 0, len(guests))
		for i := range guests {
			out = append(out, newGuestSummary(&guests[i]))
		}
		writeJSON(w, out, http.StatusOK)
	}
}

// HandleCreateAppearance answers 400 with an errors list for malformed
// bodies, out of range ratings, unknown parents and any other store failure.
func HandleCreateAppearance(s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBodyBytes))
		if err != nil {
			validation.WriteErrors(w, []string{"Failed to read request body"}, http.StatusBadRequest)
			return
		}

		in, err := validation.ParseAppearanceRequest(body)
		if err != nil {
			validation.WriteErrors(w, validation.Messages(err), http.StatusBadRequest)
			return
		}

		appearance, err := s.CreateAppearance(req.Context(), in.Rating, in.EpisodeID, in.GuestID)
		if err != nil {
			if msgs := validation.Messages(err); msgs != nil {
				validation.WriteErrors(w, msgs, http.StatusBadRequest)
				return
			}
			var nf *store.NotFoundError
			if errors.As(err, &nf) {
				validation.WriteErrors(w, []string{nf.Error()}, http.StatusBadRequest)
				return
			}
			slog.ErrorContext(req.Context(), "Failed to create appearance", slog.Any("error", err))
			validation.WriteErrors(w, []string{"Validation errors"}, http.StatusBadRequest)
			return
		}

		writeJSON(w, newAppearanceDetail(appearance), http.StatusCreated)
	}
}

// episodeID parses the {id} path parameter. Anything that is not a positive
// integer cannot name an episode.
func episodeID(req *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(req, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
