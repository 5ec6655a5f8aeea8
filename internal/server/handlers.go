package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/chriscorrea/bookrec/internal/recommend"
	"github.com/chriscorrea/bookrec/internal/search"
)

const maxSearchResults = 100

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

// respondEngineError maps engine sentinels onto HTTP statuses.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, recommend.ErrEmptyMatch):
		s.metrics.emptyMatches.Inc()
		respondError(w, http.StatusNotFound, "empty_match", err.Error())
	default:
		slog.Error("Query failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// intParam reads an optional integer query parameter.
func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", recommend.ErrInvalidArgument, name, raw)
	}
	return v, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"entries": s.lib.Engine.Len(),
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	by := recommend.ByTitle
	if raw := q.Get("by"); raw != "" {
		mode, err := recommend.ParseSearchMode(raw)
		if err != nil {
			s.respondEngineError(w, err)
			return
		}
		by = mode
	}

	n, err := intParam(r, "n", s.defaultN)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	exclude := false
	if raw := strings.TrimSpace(q.Get("exclude_matches")); raw != "" {
		exclude, err = strconv.ParseBool(raw)
		if err != nil {
			s.respondEngineError(w, fmt.Errorf("%w: exclude_matches must be a boolean, got %q", recommend.ErrInvalidArgument, raw))
			return
		}
	}

	result, err := s.lib.Engine.Query(recommend.Request{
		Query:          q.Get("q"),
		SearchBy:       by,
		N:              n,
		ExcludeMatches: exclude,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAuthorBooks(w http.ResponseWriter, r *http.Request) {
	author := chi.URLParam(r, "author")
	// chi routes on the raw path only when it differs from the decoded one
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(author)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_argument", "malformed author")
			return
		}
		author = decoded
	}

	respondJSON(w, http.StatusOK, struct {
		Author string   `json:"author"`
		Titles []string `json:"titles"`
	}{author, s.lib.Engine.BooksByAuthor(author)})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "invalid_argument", "q is required")
		return
	}

	n, err := intParam(r, "n", recommend.DefaultRecommendations)
	if err != nil {
		s.respondEngineError(w, err)
		return
	}
	if n < 1 || n > maxSearchResults {
		respondError(w, http.StatusBadRequest, "invalid_argument",
			fmt.Sprintf("n must be between 1 and %d", maxSearchResults))
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Query string       `json:"query"`
		Hits  []search.Hit `json:"hits"`
	}{query, s.lib.Index.Search(query, n)})
}
