package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/quiz"
)

var _ Client = (*HTTPClient)(nil)

// HTTPClient реализует Client через HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
	mu         sync.RWMutex
}

// NewHTTPClient создаёт клиента для сервера по адресу baseURL, например http://localhost:5000
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// SetToken задаёт токен, с которым выполняются запросы.
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
}

// Token возвращает текущий токен.
func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.token
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*auth.Session, error) {
	req := auth.RegisterRequest{Name: name, Email: email, Password: password}

	var session auth.Session
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, &session); err != nil {
		return nil, err
	}

	c.SetToken(session.Token)

	return &session, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*auth.Session, error) {
	req := auth.LoginRequest{Email: email, Password: password}

	var session auth.Session
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &session); err != nil {
		return nil, err
	}

	c.SetToken(session.Token)

	return &session, nil
}

func (c *HTTPClient) Logout() {
	c.SetToken("")
}

func (c *HTTPClient) Me(ctx context.Context) (*auth.PublicUser, error) {
	var resp struct {
		User auth.PublicUser `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.User, nil
}

func (c *HTTPClient) Categories(ctx context.Context) ([]quiz.CategorySummary, error) {
	var categories []quiz.CategorySummary
	if err := c.doRequest(ctx, http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *HTTPClient) CategoryTests(ctx context.Context, categoryID string) (*quiz.CategoryTests, error) {
	var tests quiz.CategoryTests
	path := "/api/categories/" + url.PathEscape(categoryID) + "/tests"
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &tests); err != nil {
		return nil, err
	}

	return &tests, nil
}

func (c *HTTPClient) Test(ctx context.Context, testID string) (*quiz.TestDetails, error) {
	var test quiz.TestDetails
	if err := c.doRequest(ctx, http.MethodGet, testPath(testID, ""), nil, &test); err != nil {
		return nil, err
	}

	return &test, nil
}

func (c *HTTPClient) Questions(ctx context.Context, testID string) (*quiz.TestQuestions, error) {
	var questions quiz.TestQuestions
	if err := c.doRequest(ctx, http.MethodGet, testPath(testID, "/questions"), nil, &questions); err != nil {
		return nil, err
	}

	return &questions, nil
}

func (c *HTTPClient) Submit(ctx context.Context, testID string, answers []quiz.Answer) (string, error) {
	if answers == nil {
		answers = []quiz.Answer{}
	}

	var resp struct {
		Message  string `json:"message"`
		ResultID string `json:"resultId"`
	}
	err := c.doRequest(ctx, http.MethodPost, testPath(testID, "/submit"), quiz.Submission{Answers: answers}, &resp)
	if err != nil {
		return "", err
	}

	return resp.ResultID, nil
}

func (c *HTTPClient) Result(ctx context.Context, testID string) (*quiz.ResultDetail, error) {
	var result quiz.ResultDetail
	if err := c.doRequest(ctx, http.MethodGet, testPath(testID, "/results"), nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *HTTPClient) Results(ctx context.Context) ([]quiz.ResultSummary, error) {
	var results []quiz.ResultSummary
	if err := c.doRequest(ctx, http.MethodGet, "/api/test-results", nil, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func testPath(testID, suffix string) string {
	return "/api/tests/" + url.PathEscape(testID) + suffix
}

// doRequest выполняет запрос к API и декодирует ответ в out.
// Ответ с кодом не 2xx возвращается как *APIError.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	method string,
	path string,
	params any,
	out any,
) error {
	ctx, cancelFunc := context.WithTimeout(ctx, timeoutRequest)
	defer cancelFunc()

	var body io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if params != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("failed to do %s request for %s: %w", method, path, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body of %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err = json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(data, out)
}
