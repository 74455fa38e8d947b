package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/quiz"
)

// APIError — ответ сервера с кодом не 2xx
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Detail     string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// StatusOf возвращает HTTP-статус ошибки API или 0, если err не от API.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsAlreadySubmitted сообщает, что сервер отклонил повторную отправку теста.
func IsAlreadySubmitted(err error) bool {
	return StatusOf(err) == http.StatusConflict
}

// IsUnauthorized сообщает, что токен отсутствует или больше не действует.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// Client определяет интерфейс клиента REST API квизов.
type Client interface {
	// Register создаёт пользователя и запоминает его токен.
	Register(ctx context.Context, name, email, password string) (*auth.Session, error)

	// Login входит по email и паролю и запоминает токен.
	Login(ctx context.Context, email, password string) (*auth.Session, error)

	// Logout забывает токен.
	Logout()

	// Me возвращает текущего пользователя.
	Me(ctx context.Context) (*auth.PublicUser, error)

	// Categories возвращает категории со счётчиками тестов.
	Categories(ctx context.Context) ([]quiz.CategorySummary, error)

	// CategoryTests возвращает тесты категории.
	CategoryTests(ctx context.Context, categoryID string) (*quiz.CategoryTests, error)

	// Test возвращает метаданные теста.
	Test(ctx context.Context, testID string) (*quiz.TestDetails, error)

	// Questions возвращает вопросы теста без правильных ответов.
	Questions(ctx context.Context, testID string) (*quiz.TestQuestions, error)

	// Submit отправляет ответы и возвращает ID результата.
	Submit(ctx context.Context, testID string, answers []quiz.Answer) (string, error)

	// Result возвращает последний результат по тесту.
	Result(ctx context.Context, testID string) (*quiz.ResultDetail, error)

	// Results возвращает историю результатов.
	Results(ctx context.Context) ([]quiz.ResultSummary, error)
}

// Таймауты
const (
	timeoutRequest = 10 * time.Second
)
