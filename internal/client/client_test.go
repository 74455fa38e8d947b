package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/httpapi"
	"github.com/letsssgooo/quizServer/internal/metrics"
	"github.com/letsssgooo/quizServer/internal/quiz"
	"github.com/letsssgooo/quizServer/internal/storage"
	"github.com/letsssgooo/quizServer/internal/submitguard"
)

// newTestServer поднимает API с одной категорией и тестом из двух вопросов.
func newTestServer(t *testing.T) (*httptest.Server, *models.Test, []*models.Question) {
	t.Helper()

	ctx := context.Background()
	st := storage.NewMemoryStorage()

	category := &models.Category{Name: "Programming", Description: "Basics"}
	require.NoError(t, st.CreateCategory(ctx, category))

	questions := []*models.Question{
		{Text: "Q1", Options: []string{"a", "b"}, CorrectOption: 0, Marks: 1},
		{Text: "Q2", Options: []string{"a", "b"}, CorrectOption: 1, Marks: 2},
	}
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		require.NoError(t, st.CreateQuestion(ctx, q))
		ids = append(ids, q.ID)
	}

	test := &models.Test{
		Title:          "Go Basics",
		CategoryID:     category.ID,
		TotalQuestions: 2,
		TotalMarks:     3,
		PassingMarks:   2,
		Duration:       5,
		QuestionIDs:    ids,
	}
	require.NoError(t, st.CreateTest(ctx, test))

	handler := httpapi.NewRouter(httpapi.Deps{
		Auth:    auth.NewService(st, auth.NewTokenManager("secret", time.Hour), bcrypt.MinCost),
		Engine:  quiz.NewEngine(st, submitguard.NewMemoryGuard(time.Minute)),
		Metrics: metrics.NewMetrics(prometheus.NewRegistry()),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return srv, test, questions
}

func option(i int) *int {
	return &i
}

func TestHTTPClient_Flow(t *testing.T) {
	srv, test, questions := newTestServer(t)
	ctx := context.Background()
	c := NewHTTPClient(srv.URL + "/")

	session, err := c.Register(ctx, "Test User", "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, session.Token, c.Token())

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", me.Email)

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, 1, categories[0].TestsCount)

	tests, err := c.CategoryTests(ctx, categories[0].ID)
	require.NoError(t, err)
	require.Len(t, tests.Tests, 1)
	assert.Equal(t, test.ID, tests.Tests[0].ID)

	details, err := c.Test(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, details.Duration)

	qs, err := c.Questions(ctx, test.ID)
	require.NoError(t, err)
	require.Len(t, qs.Questions, 2)

	resultID, err := c.Submit(ctx, test.ID, []quiz.Answer{
		{QuestionID: questions[0].ID, SelectedOption: option(0)},
		{QuestionID: questions[1].ID, SelectedOption: option(1)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resultID)

	_, err = c.Submit(ctx, test.ID, nil)
	assert.True(t, IsAlreadySubmitted(err))

	result, err := c.Result(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Score)
	assert.True(t, result.Passed)

	history, err := c.Results(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, resultID, history[0].ID)
}

func TestHTTPClient_Errors(t *testing.T) {
	srv, _, _ := newTestServer(t)
	ctx := context.Background()
	c := NewHTTPClient(srv.URL)

	_, err := c.Categories(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Authentication required")

	_, err = c.Login(ctx, "nobody@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Empty(t, c.Token())

	_, err = c.Register(ctx, "A", "a@example.com", "secret")
	require.NoError(t, err)
	_, err = c.Test(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, StatusOf(err))

	c.Logout()
	assert.Empty(t, c.Token())
}

func TestHTTPClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Categories(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
	assert.Contains(t, err.Error(), "Bad Gateway")
}
