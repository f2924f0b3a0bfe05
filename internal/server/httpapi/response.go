// Package httpapi exposes the file storage and account operations over HTTP.
// Every service failure maps to a status code plus a JSON envelope with a
// success flag; raw internal errors never reach the client.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vyacheslafka/cloudstorage-server/internal/common"
)

// Envelope is the JSON shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, Envelope{Success: true, Data: data, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// writeServiceError maps a service error to a status code and user-facing
// message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, "uploaded file is empty")
	case errors.Is(err, common.ErrDuplicateName):
		writeError(w, http.StatusBadRequest, "a file with this name already exists")
	case errors.Is(err, common.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "already taken")
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "not authorized")
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
