package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/quiz"
	"github.com/letsssgooo/quizServer/internal/submitguard"
)

var (
	errBadJSON    = errors.New("invalid JSON body")
	errNoToken    = errors.New("authentication required")
	errNotFound   = errors.New("route not found")
	errNotAllowed = errors.New("method not allowed")
)

// errorResponse — тело любого ответа с ошибкой
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

// writeError переводит ошибку в HTTP-статус и сообщение.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := classify(err)

	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}

	writeJSON(w, status, resp)
}

func classify(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest, errorResponse{Message: "Invalid JSON", Error: err.Error()}
	case errors.Is(err, auth.ErrValidation):
		return http.StatusBadRequest, errorResponse{Message: "Invalid request", Error: err.Error()}
	case errors.Is(err, quiz.ErrInvalidSubmission):
		return http.StatusBadRequest, errorResponse{Message: "Invalid submission", Error: err.Error()}
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusBadRequest, errorResponse{Message: "User already exists"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest, errorResponse{Message: "Invalid credentials"}
	case errors.Is(err, errNoToken):
		return http.StatusUnauthorized, errorResponse{Message: "Authentication required"}
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Message: "Invalid token"}
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized, errorResponse{Message: "User not found"}
	case errors.Is(err, quiz.ErrCategoryNotFound):
		return http.StatusNotFound, errorResponse{Message: "Category not found"}
	case errors.Is(err, quiz.ErrTestNotFound):
		return http.StatusNotFound, errorResponse{Message: "Test not found"}
	case errors.Is(err, quiz.ErrResultNotFound):
		return http.StatusNotFound, errorResponse{Message: "Test result not found"}
	case errors.Is(err, errNotFound):
		return http.StatusNotFound, errorResponse{Message: "Not found"}
	case errors.Is(err, errNotAllowed):
		return http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed"}
	case errors.Is(err, submitguard.ErrAlreadySubmitted):
		return http.StatusConflict, errorResponse{Message: "Test already submitted"}
	default:
		return http.StatusInternalServerError, errorResponse{Message: "Server error", Error: err.Error()}
	}
}
