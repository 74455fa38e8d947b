package quiz

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/storage"
	"github.com/letsssgooo/quizServer/internal/submitguard"
)

var validate = validator.New()

// Engine реализует каталог, выдачу тестов, проверку ответов и результаты.
type Engine struct {
	store storage.Storage
	guard submitguard.Guard
	now   func() time.Time
}

// NewEngine создаёт Engine. Если guard равен nil, повторные отправки не блокируются.
func NewEngine(store storage.Storage, guard submitguard.Guard) *Engine {
	return &Engine{
		store: store,
		guard: guard,
		now:   time.Now,
	}
}

// ListCategories возвращает категории с числом тестов в каждой.
func (e *Engine) ListCategories(ctx context.Context) ([]CategorySummary, error) {
	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	summaries := make([]CategorySummary, 0, len(categories))
	for _, c := range categories {
		count, err := e.store.CountTestsByCategory(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count tests of category %s: %w", c.ID, err)
		}

		summaries = append(summaries, CategorySummary{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			TestsCount:  count,
		})
	}

	return summaries, nil
}

// ListTests возвращает тесты категории без вопросов.
func (e *Engine) ListTests(ctx context.Context, categoryID string) (*CategoryTests, error) {
	category, err := e.store.GetCategory(ctx, categoryID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", categoryID, err)
	}

	tests, err := e.store.ListTestsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests of category %s: %w", categoryID, err)
	}

	result := &CategoryTests{
		CategoryName: category.Name,
		Tests:        make([]TestSummary, 0, len(tests)),
	}
	for i := range tests {
		result.Tests = append(result.Tests, summarize(&tests[i]))
	}

	return result, nil
}

// GetTest возвращает метаданные теста.
func (e *Engine) GetTest(ctx context.Context, testID string) (*TestDetails, error) {
	test, err := e.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	instructions := test.Instructions
	if instructions == nil {
		instructions = []string{}
	}

	return &TestDetails{TestSummary: summarize(test), Instructions: instructions}, nil
}

// GetQuestions возвращает вопросы теста без правильных ответов.
func (e *Engine) GetQuestions(ctx context.Context, testID string) (*TestQuestions, error) {
	test, err := e.getTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	questions, err := e.store.GetQuestions(ctx, test.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions of test %s: %w", testID, err)
	}

	result := &TestQuestions{
		ID:             test.ID,
		Title:          test.Title,
		Duration:       test.Duration,
		TotalQuestions: test.TotalQuestions,
		Questions:      make([]PublicQuestion, 0, len(questions)),
	}
	for _, q := range questions {
		result.Questions = append(result.Questions, PublicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
			Marks:   q.Marks,
		})
	}

	return result, nil
}

// Submit проверяет ответы пользователя и сохраняет результат.
// Возвращает ID созданного результата.
func (e *Engine) Submit(ctx context.Context, userID, testID string, submission Submission) (string, error) {
	test, err := e.getTest(ctx, testID)
	if err != nil {
		return "", err
	}

	if err = validate.Struct(submission); err != nil {
		return "", fmt.Errorf("%w, every answer needs a questionId", ErrInvalidSubmission)
	}

	if e.guard != nil {
		if err = e.guard.Acquire(ctx, userID, testID); err != nil {
			return "", err
		}
	}

	resultID, err := e.score(ctx, userID, test, submission.Answers)
	if err != nil {
		// даём пользователю повторить попытку сразу
		if e.guard != nil {
			if releaseErr := e.guard.Release(ctx, userID, testID); releaseErr != nil {
				slog.Warn("failed to release submit lock", "user_id", userID, "test_id", testID, "err", releaseErr)
			}
		}
		return "", err
	}

	return resultID, nil
}

func (e *Engine) score(ctx context.Context, userID string, test *models.Test, answers []Answer) (string, error) {
	questions, err := e.store.GetQuestions(ctx, test.QuestionIDs)
	if err != nil {
		return "", fmt.Errorf("failed to get questions of test %s: %w", test.ID, err)
	}

	card := Score(questions, answers)

	result := &models.TestResult{
		UserID:         userID,
		TestID:         test.ID,
		Score:          card.Score,
		TotalQuestions: card.TotalQuestions,
		CorrectAnswers: card.CorrectAnswers,
		WrongAnswers:   card.WrongAnswers,
		SkippedAnswers: card.SkippedAnswers,
		Answers:        card.Answers,
		CompletedAt:    e.now().UTC(),
	}
	if err = e.store.CreateResult(ctx, result); err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}

	slog.Info("test submitted",
		"user_id", userID,
		"test_id", test.ID,
		"result_id", result.ID,
		"score", card.Score,
	)

	return result.ID, nil
}

// GetResult возвращает последний результат пользователя по тесту с разбором вопросов.
func (e *Engine) GetResult(ctx context.Context, userID, testID string) (*ResultDetail, error) {
	result, err := e.store.GetLatestResult(ctx, testID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	ref, err := e.testRef(ctx, testID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Answers))
	for _, a := range result.Answers {
		ids = append(ids, a.QuestionID)
	}
	questions, err := e.store.GetQuestions(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions of result %s: %w", result.ID, err)
	}

	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	detail := &ResultDetail{
		ID:             result.ID,
		UserID:         result.UserID,
		Test:           ref,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		WrongAnswers:   result.WrongAnswers,
		SkippedAnswers: result.SkippedAnswers,
		Answers:        make([]ReviewedAnswer, 0, len(result.Answers)),
		CompletedAt:    result.CompletedAt,
	}
	detail.Passed, detail.Percentage = grade(result.Score, ref)

	for _, a := range result.Answers {
		reviewed := ReviewedAnswer{SelectedOption: a.SelectedOption, IsCorrect: a.IsCorrect}
		if q, ok := byID[a.QuestionID]; ok {
			reviewed.Question = &ReviewedQuestion{
				ID:            q.ID,
				Text:          q.Text,
				Options:       q.Options,
				CorrectOption: q.CorrectOption,
				Marks:         q.Marks,
			}
		}
		detail.Answers = append(detail.Answers, reviewed)
	}

	return detail, nil
}

// ListResults возвращает историю результатов пользователя, новые первыми.
func (e *Engine) ListResults(ctx context.Context, userID string) ([]ResultSummary, error) {
	results, err := e.store.ListResultsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	refs := make(map[string]*TestRef)
	summaries := make([]ResultSummary, 0, len(results))
	for _, r := range results {
		ref, ok := refs[r.TestID]
		if !ok {
			if ref, err = e.testRef(ctx, r.TestID); err != nil {
				return nil, err
			}
			refs[r.TestID] = ref
		}

		summary := ResultSummary{
			ID:             r.ID,
			UserID:         r.UserID,
			Test:           ref,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			CorrectAnswers: r.CorrectAnswers,
			WrongAnswers:   r.WrongAnswers,
			SkippedAnswers: r.SkippedAnswers,
			Answers:        r.Answers,
			CompletedAt:    r.CompletedAt,
		}
		summary.Passed, summary.Percentage = grade(r.Score, ref)
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// ExportResultsCSV выгружает историю пользователя в CSV.
func (e *Engine) ExportResultsCSV(ctx context.Context, userID string) ([]byte, error) {
	results, err := e.ListResults(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, len(results)+1)
	rows[0] = []string{
		"CompletedAt",
		"Test",
		"Score",
		"TotalMarks",
		"Percentage",
		"Correct",
		"Wrong",
		"Skipped",
		"Passed",
	}
	for i, r := range results {
		title, totalMarks := "", 0
		if r.Test != nil {
			title, totalMarks = r.Test.Title, r.Test.TotalMarks
		}
		rows[i+1] = []string{
			r.CompletedAt.UTC().Format(time.RFC3339),
			title,
			strconv.Itoa(r.Score),
			strconv.Itoa(totalMarks),
			strconv.Itoa(r.Percentage),
			strconv.Itoa(r.CorrectAnswers),
			strconv.Itoa(r.WrongAnswers),
			strconv.Itoa(r.SkippedAnswers),
			strconv.FormatBool(r.Passed),
		}
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err = w.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// CatalogStats возвращает число тестов по названиям категорий.
func (e *Engine) CatalogStats(ctx context.Context) (map[string]int, error) {
	categories, err := e.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]int, len(categories))
	for _, c := range categories {
		stats[strings.TrimSpace(c.Name)] += c.TestsCount
	}

	return stats, nil
}

func (e *Engine) getTest(ctx context.Context, testID string) (*models.Test, error) {
	test, err := e.store.GetTest(ctx, testID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test %s: %w", testID, err)
	}

	return test, nil
}

// testRef возвращает nil, если тест удалён после прохождения.
func (e *Engine) testRef(ctx context.Context, testID string) (*TestRef, error) {
	test, err := e.store.GetTest(ctx, testID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get test %s: %w", testID, err)
	}

	return &TestRef{
		ID:           test.ID,
		Title:        test.Title,
		TotalMarks:   test.TotalMarks,
		PassingMarks: test.PassingMarks,
	}, nil
}

func grade(score int, ref *TestRef) (bool, int) {
	if ref == nil {
		return false, 0
	}
	return Passed(score, ref.PassingMarks), Percentage(score, ref.TotalMarks)
}

func summarize(test *models.Test) TestSummary {
	return TestSummary{
		ID:             test.ID,
		Title:          test.Title,
		Description:    test.Description,
		TotalQuestions: test.TotalQuestions,
		TotalMarks:     test.TotalMarks,
		PassingMarks:   test.PassingMarks,
		Duration:       test.Duration,
	}
}
