package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"whiteboard/internal/application"
	"whiteboard/internal/application/generator"
	"whiteboard/internal/loop"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps board errors onto HTTP status codes
func statusFor(err error) int {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, application.ErrInvalidID),
		errors.Is(err, application.ErrUnknownKind):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrNotFound),
		errors.Is(err, application.ErrUnknownEndpoint):
		return http.StatusNotFound
	case errors.Is(err, generator.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, application.ErrNotApplicable),
		errors.Is(err, application.ErrInvalidOperation),
		errors.Is(err, generator.ErrInvalidTotal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loop.ErrStopped):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "request_id", RequestIDFrom(r.Context()), "err", err)
		writeError(w, status, "an internal error occurred")
		return
	}
	writeError(w, status, err.Error())
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &application.ValidationError{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	return nil
}
