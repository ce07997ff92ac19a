package handler

// Response helpers shared by every handler in this package.
//
// Error bodies always have the single shape {"error": "<message>"} — the
// frontend only ever looks at one field, regardless of whether the status is
// 400, 404, 409 or 500. The mapping from domain error to status code lives
// here and nowhere else; services return apperror values and never see HTTP.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/simple-todo/internal/apperror"
)

// maxBodyBytes caps how much of a request body we are willing to read.
// The API's largest legitimate payload is an email plus a password; 1 MiB is
// generous headroom, and anything beyond it is rejected rather than buffered.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error body for all API endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code. Headers and
// status must be written before the body — once Encode starts writing, the
// headers are already on the wire.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone; all we can do is log it.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends the standard
// error body. Unknown errors become an opaque 500 — raw error text can carry
// SQL or file paths and never belongs in a response.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrLimitExceeded):
			// A full list is a rule violation in a well-formed request: 400.
			status = http.StatusBadRequest
		}

		writeJSON(w, status, ErrorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "An internal error occurred."})
}

// NotFound is the JSON 404 for anything under /api that matches no route.
// Method mismatches land here too — the routing table knows five
// method+path pairs, and everything else is simply not found.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Not found"})
}

// decodeJSON reads the request body into dst, enforcing the body size cap.
// Any malformed body yields the same "Invalid JSON" validation error before
// handler-specific logic runs.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperror.ValidationFailed("body", "Request body too large.")
		}
		return apperror.ValidationFailed("body", "Invalid JSON")
	}

	// The body must be exactly one JSON value. A second Decode hitting
	// anything but EOF means trailing data after the object.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("body", "Invalid JSON")
	}

	return nil
}
