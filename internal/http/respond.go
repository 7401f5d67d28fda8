package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/mauv0809/smashqueue/internal/match"
	"github.com/mauv0809/smashqueue/internal/players"
	"github.com/mauv0809/smashqueue/internal/queue"
)

// envelope is the uniform response shape for all API routes.
type envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *errorEnvelope `json:"error,omitempty"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string, details ...any) {
	e := &errorEnvelope{Code: code, Message: message}
	if len(details) > 0 {
		e.Details = details[0]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Error: e}); err != nil {
		log.Error("Failed to encode error response", "error", err)
	}
}

// respondDomainError maps a store or controller error onto the HTTP error
// taxonomy: validation 400, conflict 409, not found 404, everything else 500.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, match.ErrInvalidTeams),
		errors.Is(err, match.ErrInvalidScores),
		errors.Is(err, players.ErrInvalidSkillTier),
		errors.Is(err, players.ErrInvalidHandPreference):
		respondError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, queue.ErrAlreadyQueued),
		errors.Is(err, queue.ErrNotQueued),
		errors.Is(err, queue.ErrInsufficientPlayers),
		errors.Is(err, match.ErrMatchAlreadyCompleted),
		errors.Is(err, players.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, players.ErrPlayerNotFound),
		errors.Is(err, match.ErrMatchNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		log.Error("Unhandled error in handler", "error", err)
		respondError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decodeBody parses the request body into dst, rejecting unknown fields so
// typos surface as 400s instead of silently ignored input.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// readWithRetry runs a read-only storage call, retrying once on failure.
// Mutating calls must never go through this.
func readWithRetry(fn func() error) error {
	err := fn()
	if err == nil {
		return err
	}
	log.Warn("Read failed, retrying once", "error", err)
	return fn()
}
