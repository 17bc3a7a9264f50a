// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/governance"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Decode reads a JSON request body into dst. It rejects oversized bodies
// and trailing garbage after the first value.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// Write serializes v as the response with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error body.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// WriteEngineError maps engine sentinels to HTTP statuses. Anything not
// in the taxonomy is treated as an internal error and the detail is not
// leaked to the client.
func WriteEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, governance.ErrUnauthorized):
		Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, governance.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, governance.ErrConflict):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, governance.ErrInvalidState):
		Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal error")
	}
}
