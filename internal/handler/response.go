package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// respondWithError wraps the message in {"error": ...} so every failure
// has the same JSON shape.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJson(w, code, map[string]string{"error": message})
}

// respondWithJson marshals the payload, sets the content type and writes
// the status code and body.
func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	dat, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(dat)
}
