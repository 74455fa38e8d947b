package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/letsssgooo/quizServer/internal/auth"
	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/quiz"
	"github.com/letsssgooo/quizServer/internal/storage"
)

//go:embed catalog.json
var defaultCatalog []byte

var ErrUnknownReference = errors.New("unknown reference")

// UserSeed — демо-пользователь с паролем в открытом виде
type UserSeed struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// QuestionSeed — вопрос, на который тесты ссылаются по Key
type QuestionSeed struct {
	Key           string   `json:"key"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Marks         int      `json:"marks"`
}

// TestSeed — тест, ссылающийся на категорию по имени и на вопросы по ключам.
// Количество вопросов и сумма баллов вычисляются при загрузке.
type TestSeed struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	PassingMarks int      `json:"passingMarks"`
	Duration     int      `json:"duration"`
	Questions    []string `json:"questions"`
	Instructions []string `json:"instructions"`
}

// Catalog — набор данных для заполнения хранилища
type Catalog struct {
	Users      []UserSeed        `json:"users"`
	Categories []models.Category `json:"categories"`
	Questions  []QuestionSeed    `json:"questions"`
	Tests      []TestSeed        `json:"tests"`
}

// Report — сколько документов создано
type Report struct {
	Users      int
	Categories int
	Questions  int
	Tests      int
}

// Default возвращает встроенный демо-каталог.
func Default() (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(defaultCatalog, &c); err != nil {
		return nil, fmt.Errorf("failed to parse default catalog: %w", err)
	}
	return &c, nil
}

// Merge добавляет к каталогу данные other.
// Категории с уже известным именем не дублируются.
func (c *Catalog) Merge(other *Catalog) {
	known := make(map[string]bool, len(c.Categories))
	for _, category := range c.Categories {
		known[strings.ToLower(category.Name)] = true
	}

	for _, category := range other.Categories {
		if known[strings.ToLower(category.Name)] {
			continue
		}
		known[strings.ToLower(category.Name)] = true
		c.Categories = append(c.Categories, category)
	}

	c.Users = append(c.Users, other.Users...)
	c.Questions = append(c.Questions, other.Questions...)
	c.Tests = append(c.Tests, other.Tests...)
}

// Load очищает хранилище и записывает в него каталог.
func Load(ctx context.Context, store storage.Storage, c *Catalog, hashCost int) (*Report, error) {
	if err := store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("failed to reset storage: %w", err)
	}

	report := &Report{}

	for _, u := range c.Users {
		hash, err := auth.HashPassword(u.Password, hashCost)
		if err != nil {
			return nil, err
		}

		user := &models.User{Name: u.Name, Email: auth.NormalizeEmail(u.Email), PasswordHash: hash}
		if err := store.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.Email, err)
		}
		report.Users++
	}

	categories := make(map[string]string, len(c.Categories))
	for i := range c.Categories {
		category := c.Categories[i]
		if err := store.CreateCategory(ctx, &category); err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", category.Name, err)
		}
		categories[strings.ToLower(category.Name)] = category.ID
		report.Categories++
	}

	questions := make(map[string]models.Question, len(c.Questions))
	for _, qs := range c.Questions {
		q := models.Question{
			Text:          qs.Text,
			Options:       qs.Options,
			CorrectOption: qs.CorrectOption,
			Marks:         qs.Marks,
		}
		if err := quiz.ValidateQuestion(&q); err != nil {
			return nil, err
		}
		if err := store.CreateQuestion(ctx, &q); err != nil {
			return nil, fmt.Errorf("failed to create question %q: %w", q.Text, err)
		}
		questions[qs.Key] = q
		report.Questions++
	}

	for _, ts := range c.Tests {
		test, err := buildTest(ts, categories, questions)
		if err != nil {
			return nil, err
		}
		if err := store.CreateTest(ctx, test); err != nil {
			return nil, fmt.Errorf("failed to create test %q: %w", test.Title, err)
		}
		report.Tests++
	}

	slog.Info("catalog seeded",
		slog.Int("users", report.Users),
		slog.Int("categories", report.Categories),
		slog.Int("questions", report.Questions),
		slog.Int("tests", report.Tests),
	)

	return report, nil
}

func buildTest(ts TestSeed, categories map[string]string, questions map[string]models.Question) (*models.Test, error) {
	categoryID, ok := categories[strings.ToLower(ts.Category)]
	if !ok {
		return nil, fmt.Errorf("%w: category %q of test %q", ErrUnknownReference, ts.Category, ts.Title)
	}

	test := &models.Test{
		Title:        ts.Title,
		Description:  ts.Description,
		CategoryID:   categoryID,
		PassingMarks: ts.PassingMarks,
		Duration:     ts.Duration,
		Instructions: ts.Instructions,
	}

	for _, key := range ts.Questions {
		q, ok := questions[key]
		if !ok {
			return nil, fmt.Errorf("%w: question %q of test %q", ErrUnknownReference, key, ts.Title)
		}
		test.QuestionIDs = append(test.QuestionIDs, q.ID)
		test.TotalMarks += q.Marks
	}
	test.TotalQuestions = len(test.QuestionIDs)

	if err := quiz.ValidateTest(test); err != nil {
		return nil, err
	}

	return test, nil
}
