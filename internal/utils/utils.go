package utils

import (
	"encoding/json"
	"net/http"

	"github.com/grvbrk/tubepulse/internal/log"
)

type Envelope map[string]interface{}

func WriteJSON(w http.ResponseWriter, status int, data Envelope) {
	logger := log.WithComponent("http")

	js, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		logger.Error().Err(err).Msg("error marshaling JSON")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	js = append(js, '\n')
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(js); err != nil {
		logger.Warn().Err(err).Msg("error writing JSON response")
	}
}

// WriteError writes the error envelope used by every API route. details is
// omitted when empty.
func WriteError(w http.ResponseWriter, status int, message, details string) {
	env := Envelope{"error": message}
	if details != "" {
		env["details"] = details
	}
	WriteJSON(w, status, env)
}
