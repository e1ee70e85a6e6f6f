package utils

import (
	"encoding/json"
	"net/http"

	"tracker-backend/internal/apperrors"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error maps a domain error to its HTTP status and writes a JSON body.
func Error(w http.ResponseWriter, err error) {
	JSON(w, apperrors.HTTPStatus(err), map[string]string{"error": err.Error()})
}
