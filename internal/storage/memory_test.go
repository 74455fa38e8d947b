package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

func TestMemoryStorage_Users(t *testing.T) {
	st := NewMemoryStorage()
	ctx := context.Background()

	user := &models.User{Name: "Test User", Email: "Test@Example.com", PasswordHash: "hash"}
	require.NoError(t, st.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byID, err := st.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test User", byID.Name)

	byEmail, err := st.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	err = st.CreateUser(ctx, &models.User{Name: "Other", Email: "test@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = st.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = st.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_Catalog(t *testing.T) {
	st := NewMemoryStorage()
	ctx := context.Background()

	web := &models.Category{Name: "Web", Description: "Web tests"}
	empty := &models.Category{Name: "Empty", Description: "No tests"}
	require.NoError(t, st.CreateCategory(ctx, web))
	require.NoError(t, st.CreateCategory(ctx, empty))

	q1 := &models.Question{Text: "Q1", Options: []string{"a", "b"}, CorrectOption: 0, Marks: 1}
	q2 := &models.Question{Text: "Q2", Options: []string{"a", "b"}, CorrectOption: 1, Marks: 2}
	require.NoError(t, st.CreateQuestion(ctx, q1))
	require.NoError(t, st.CreateQuestion(ctx, q2))

	test := &models.Test{
		Title:       "HTML",
		CategoryID:  web.ID,
		QuestionIDs: []string{q2.ID, q1.ID},
	}
	require.NoError(t, st.CreateTest(ctx, test))

	categories, err := st.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Web", categories[0].Name)
	assert.Equal(t, "Empty", categories[1].Name)

	count, err := st.CountTestsByCategory(ctx, web.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = st.CountTestsByCategory(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	tests, err := st.ListTestsByCategory(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, tests)
	assert.Empty(t, tests)

	questions, err := st.GetQuestions(ctx, []string{q2.ID, "unknown", q1.ID})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Q2", questions[0].Text)
	assert.Equal(t, "Q1", questions[1].Text)

	got, err := st.GetTest(ctx, test.ID)
	require.NoError(t, err)
	got.QuestionIDs[0] = "mutated"

	again, err := st.GetTest(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, q2.ID, again.QuestionIDs[0])

	_, err = st.GetCategory(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorage_Results(t *testing.T) {
	st := NewMemoryStorage()
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	first := &models.TestResult{UserID: "u1", TestID: "t1", Score: 1, CompletedAt: base}
	second := &models.TestResult{UserID: "u1", TestID: "t1", Score: 3, CompletedAt: base.Add(time.Minute)}
	other := &models.TestResult{UserID: "u1", TestID: "t2", Score: 5, CompletedAt: base.Add(2 * time.Minute)}
	foreign := &models.TestResult{UserID: "u2", TestID: "t1", Score: 7, CompletedAt: base.Add(3 * time.Minute)}

	for _, r := range []*models.TestResult{first, second, other, foreign} {
		require.NoError(t, st.CreateResult(ctx, r))
		require.NotEmpty(t, r.ID)
	}

	latest, err := st.GetLatestResult(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = st.GetLatestResult(ctx, "t3", "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := st.ListResultsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, other.ID, history[0].ID)
	assert.Equal(t, second.ID, history[1].ID)
	assert.Equal(t, first.ID, history[2].ID)

	empty, err := st.ListResultsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStorage_LatestResultSameTimestamp(t *testing.T) {
	st := NewMemoryStorage()
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	older := &models.TestResult{UserID: "u1", TestID: "t1", CompletedAt: at}
	newer := &models.TestResult{UserID: "u1", TestID: "t1", CompletedAt: at}
	require.NoError(t, st.CreateResult(ctx, older))
	require.NoError(t, st.CreateResult(ctx, newer))

	latest, err := st.GetLatestResult(ctx, "t1", "u1")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestMemoryStorage_Reset(t *testing.T) {
	st := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, st.CreateUser(ctx, &models.User{Email: "a@b.c"}))
	require.NoError(t, st.CreateCategory(ctx, &models.Category{Name: "c"}))
	require.NoError(t, st.Reset(ctx))

	categories, err := st.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	_, err = st.GetUserByEmail(ctx, "a@b.c")
	assert.ErrorIs(t, err, ErrNotFound)
}
