package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/metrics"
	"github.com/letsssgooo/quizServer/internal/quiz"
	"github.com/letsssgooo/quizServer/internal/submitguard"
)

type submitResponse struct {
	Message  string `json:"message"`
	ResultID string `json:"resultId"`
}

type meResponse struct {
	User auth.PublicUser `json:"user"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := s.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, meResponse{User: auth.NewPublicUser(userFrom(r.Context()))})
}

func (s *server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.engine.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func (s *server) handleCategoryTests(w http.ResponseWriter, r *http.Request) {
	tests, err := s.engine.ListTests(r.Context(), mux.Vars(r)["categoryId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tests)
}

func (s *server) handleTest(w http.ResponseWriter, r *http.Request) {
	test, err := s.engine.GetTest(r.Context(), mux.Vars(r)["testId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, test)
}

func (s *server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.engine.GetQuestions(r.Context(), mux.Vars(r)["testId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questions)
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var submission quiz.Submission
	if err := decodeJSON(w, r, &submission); err != nil {
		s.metrics.RecordSubmission(metrics.SubmissionRejected)
		writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	resultID, err := s.engine.Submit(r.Context(), user.ID, mux.Vars(r)["testId"], submission)
	if err != nil {
		s.metrics.RecordSubmission(submissionOutcome(err))
		writeError(w, r, err)
		return
	}

	s.metrics.RecordSubmission(metrics.SubmissionAccepted)
	writeJSON(w, http.StatusOK, submitResponse{
		Message:  "Test submitted successfully",
		ResultID: resultID,
	})
}

func submissionOutcome(err error) string {
	switch {
	case errors.Is(err, submitguard.ErrAlreadySubmitted):
		return metrics.SubmissionDuplicate
	case errors.Is(err, quiz.ErrTestNotFound), errors.Is(err, quiz.ErrInvalidSubmission):
		return metrics.SubmissionRejected
	default:
		return metrics.SubmissionFailed
	}
}

func (s *server) handleResult(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	result, err := s.engine.GetResult(r.Context(), user.ID, mux.Vars(r)["testId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.engine.ListResults(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := s.engine.ExportResultsCSV(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="test-results.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
