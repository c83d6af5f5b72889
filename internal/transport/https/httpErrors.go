package https

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"segmentservice/internal/apperror"
	"segmentservice/internal/model"
)

func statusFor(err error) int {
	switch apperror.KindOf(err) {
	case apperror.ErrValidation, apperror.ErrRange:
		return http.StatusBadRequest
	case apperror.ErrFormat:
		return http.StatusUnprocessableEntity
	case apperror.ErrConflict:
		return http.StatusConflict
	case apperror.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides infrastructure failures behind a generic message and logs them.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Default().Error("request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", requestID(r.Context()), "error", err)
		writeJSONError(w, status, "internal server error")
		return
	}
	writeJSONError(w, status, err.Error())
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorDTO{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "warn", err)
	}
}

func errorMessages(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			out = append(out, appErr.Msg)
			continue
		}
		out = append(out, err.Error())
	}
	return out
}
