package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/beedatatech/teamflow/internal/app/services"
	"github.com/beedatatech/teamflow/internal/app/storage"
)

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// writeServiceError maps service and storage errors onto HTTP statuses:
// validation failures become 400, missing records 404, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, services.ValidationMessage(err))
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
