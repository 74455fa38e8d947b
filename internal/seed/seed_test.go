package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/quiz"
	"github.com/letsssgooo/quizServer/internal/storage"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Users, 1)
	assert.Len(t, c.Categories, 3)
	assert.Len(t, c.Questions, 10)
	assert.Len(t, c.Tests, 3)
}

func TestLoadDefaultCatalog(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	c, err := Default()
	require.NoError(t, err)

	report, err := Load(ctx, store, c, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, &Report{Users: 1, Categories: 3, Questions: 10, Tests: 3}, report)

	user, err := store.GetUserByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "password123"))

	engine := quiz.NewEngine(store, nil)
	categories, err := engine.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)

	counts := map[string]int{}
	for _, category := range categories {
		counts[category.Name] = category.TestsCount
	}
	assert.Equal(t, map[string]int{"Web Development": 2, "Data Science": 1, "Mobile Development": 0}, counts)

	tests, err := store.ListTestsByCategory(ctx, categories[0].ID)
	require.NoError(t, err)

	totals := map[string][2]int{}
	for _, test := range tests {
		totals[test.Title] = [2]int{test.TotalQuestions, test.TotalMarks}
	}
	assert.Equal(t, [2]int{2, 2}, totals["HTML & CSS Basics"])
	assert.Equal(t, [2]int{3, 4}, totals["JavaScript Fundamentals"])
}

func TestLoadResetsStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()

	c, err := Default()
	require.NoError(t, err)

	_, err = Load(ctx, store, c, bcrypt.MinCost)
	require.NoError(t, err)
	_, err = Load(ctx, store, c, bcrypt.MinCost)
	require.NoError(t, err)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 3)
}

func TestLoadUnknownReference(t *testing.T) {
	c := &Catalog{
		Categories: nil,
		Questions:  []QuestionSeed{{Key: "q", Text: "Q?", Options: []string{"a", "b"}, Marks: 1}},
		Tests:      []TestSeed{{Title: "T", Category: "Missing", Duration: 5, Questions: []string{"q"}}},
	}

	_, err := Load(context.Background(), storage.NewMemoryStorage(), c, bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrUnknownReference)
}

func TestLoadInvalidQuestion(t *testing.T) {
	c := &Catalog{
		Questions: []QuestionSeed{{Key: "q", Text: "Q?", Options: []string{"a"}, Marks: 1}},
	}

	_, err := Load(context.Background(), storage.NewMemoryStorage(), c, bcrypt.MinCost)
	assert.ErrorIs(t, err, quiz.ErrInvalidCatalog)
}

func TestMergeSkipsKnownCategories(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	c.Merge(&Catalog{
		Categories: []models.Category{{Name: "data science"}, {Name: "Go"}},
		Tests:      []TestSeed{{Title: "Go Basics"}},
	})

	assert.Len(t, c.Categories, 4)
	assert.Len(t, c.Tests, 4)
}

func newWorkbook(t *testing.T, rows [][]any) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	_, err := f.NewSheet("Questions")
	require.NoError(t, err)

	header := []any{"Test", "Category", "Question", "A", "B", "C", "D", "E", "F", "Correct", "Marks", "Passing", "Duration"}
	require.NoError(t, f.SetSheetRow("Questions", "A1", &header))

	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Questions", cellName, &row))
	}

	return f
}

func TestReadWorkbook(t *testing.T) {
	f := newWorkbook(t, [][]any{
		{"Go Basics", "Go", "Which keyword starts a goroutine?", "go", "func", "defer", "", "", "", "A", 2, 3, 20},
		{"Go Basics", "Go", "Zero value of int?", "1", "0", "", "", "", "", "b", 1},
		{"Go Basics", "Go", "Broken row", "only", "", "", "", "", "", "A", 1},
		{"Channels", "Go", "Unbuffered send blocks until?", "receive", "close", "", "", "", "", "A"},
		{},
		{"Channels", "Go", "Bad letter", "x", "y", "", "", "", "", "Z", 1},
	})

	result, err := ReadWorkbook(f, DefaultImportConfig())
	require.NoError(t, err)

	assert.Equal(t, 5, result.TotalRows)
	assert.Equal(t, 3, result.Imported)
	assert.Len(t, result.Errors, 2)

	c := result.Catalog
	require.Len(t, c.Categories, 1)
	assert.Equal(t, "Go", c.Categories[0].Name)

	require.Len(t, c.Tests, 2)
	assert.Equal(t, "Go Basics", c.Tests[0].Title)
	assert.Len(t, c.Tests[0].Questions, 2)
	assert.Equal(t, 3, c.Tests[0].PassingMarks)
	assert.Equal(t, 20, c.Tests[0].Duration)

	assert.Equal(t, "Channels", c.Tests[1].Title)
	assert.Equal(t, 1, c.Tests[1].PassingMarks)
	assert.Equal(t, 10, c.Tests[1].Duration)

	assert.Equal(t, 1, c.Questions[1].CorrectOption)
	assert.Equal(t, 1, c.Questions[2].Marks)
}

func TestImportedCatalogLoads(t *testing.T) {
	ctx := context.Background()
	f := newWorkbook(t, [][]any{
		{"Go Basics", "Go", "Which keyword starts a goroutine?", "go", "func", "", "", "", "", "A", 2},
		{"Go Basics", "Go", "Zero value of int?", "1", "0", "", "", "", "", "B", 1},
	})

	result, err := ReadWorkbook(f, DefaultImportConfig())
	require.NoError(t, err)

	c, err := Default()
	require.NoError(t, err)
	c.Merge(result.Catalog)

	store := storage.NewMemoryStorage()
	report, err := Load(ctx, store, c, bcrypt.MinCost)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Categories)
	assert.Equal(t, 4, report.Tests)

	engine := quiz.NewEngine(store, nil)
	categories, err := engine.ListCategories(ctx)
	require.NoError(t, err)

	var goID string
	for _, category := range categories {
		if category.Name == "Go" {
			goID = category.ID
		}
	}
	require.NotEmpty(t, goID)

	ct, err := engine.ListTests(ctx, goID)
	require.NoError(t, err)
	require.Len(t, ct.Tests, 1)
	assert.Equal(t, 2, ct.Tests[0].TotalQuestions)
	assert.Equal(t, 3, ct.Tests[0].TotalMarks)
	assert.Equal(t, 2, ct.Tests[0].PassingMarks)
}

func TestReadWorkbookMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := ReadWorkbook(f, DefaultImportConfig())
	assert.Error(t, err)
}
