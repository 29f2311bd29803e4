// Package httpx provides JSON response helpers shared by the handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"BERTool/internal/apperr"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Kind    string      `json:"kind,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes payload with the given status code. The payload is marshalled
// before the status is sent; a payload that cannot be encoded becomes a 500.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "Internal error", Kind: apperr.KindInternal.String()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

// Decode reads a JSON request body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.KindBadRequest, "Invalid request payload", err)
	}
	return nil
}

// Error maps err to a JSON error response. Typed errors use their kind;
// anything else is reported as an internal error without leaking its text.
func Error(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Wrap(apperr.KindInternal, "Internal error", err)
	}
	status := appErr.HTTPStatus()
	if log != nil {
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		log.Log(r.Context(), level, "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("kind", appErr.Kind.String()),
			slog.String("error", err.Error()),
		)
	}

	msg := appErr.Message
	if appErr.Kind == apperr.KindBadRequest && appErr.Err != nil {
		msg = msg + ": " + appErr.Err.Error()
	}
	JSON(w, status, ErrorResponse{Error: msg, Kind: appErr.Kind.String(), Details: appErr.Details})
}
