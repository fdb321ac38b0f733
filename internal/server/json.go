package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hsufamily/scorepad/internal/scores"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps core errors onto HTTP statuses. Unrecognized errors
// surface as 500 without leaking detail.
func writeStoreError(w http.ResponseWriter, err error) {
	var invalid *scores.InvalidRoundResultError
	switch {
	case errors.Is(err, scores.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, scores.ErrActiveGameExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &invalid):
		writeError(w, http.StatusConflict, invalid.Error())
	case errors.Is(err, scores.ErrPointsOutOfRange),
		errors.Is(err, scores.ErrInvalidRoundCount),
		errors.Is(err, scores.ErrTagTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
