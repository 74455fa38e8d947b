package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/letsssgooo/quizServer/internal/domain/models"
)

var _ Storage = (*MemoryStorage)(nil)

// MemoryStorage реализует Storage в памяти.
type MemoryStorage struct {
	users      map[string]*models.User
	emails     map[string]string // email -> userID
	categories map[string]*models.Category
	catOrder   []string
	questions  map[string]*models.Question
	tests      map[string]*models.Test
	testOrder  []string
	results    []*models.TestResult
	mu         sync.RWMutex
}

// NewMemoryStorage создаёт новый MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{}
	s.init()
	return s
}

func (s *MemoryStorage) init() {
	s.users = make(map[string]*models.User)
	s.emails = make(map[string]string)
	s.categories = make(map[string]*models.Category)
	s.catOrder = nil
	s.questions = make(map[string]*models.Question)
	s.tests = make(map[string]*models.Test)
	s.testOrder = nil
	s.results = nil
}

// CreateUser сохраняет пользователя.
func (s *MemoryStorage) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := s.emails[key]; ok {
		return ErrDuplicate
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	stored := *user
	s.users[user.ID] = &stored
	s.emails[key] = user.ID

	return nil
}

// GetUserByID возвращает пользователя по ID.
func (s *MemoryStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	found := *user
	return &found, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}

	found := *s.users[id]
	return &found, nil
}

// CreateCategory сохраняет категорию.
func (s *MemoryStorage) CreateCategory(ctx context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if _, ok := s.categories[category.ID]; ok {
		return ErrDuplicate
	}

	stored := *category
	s.categories[category.ID] = &stored
	s.catOrder = append(s.catOrder, category.ID)

	return nil
}

// ListCategories возвращает все категории в порядке добавления.
func (s *MemoryStorage) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.catOrder))
	for _, id := range s.catOrder {
		categories = append(categories, *s.categories[id])
	}

	return categories, nil
}

// GetCategory возвращает категорию по ID.
func (s *MemoryStorage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, ErrNotFound
	}

	found := *category
	return &found, nil
}

// CreateQuestion сохраняет вопрос.
func (s *MemoryStorage) CreateQuestion(ctx context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	if _, ok := s.questions[question.ID]; ok {
		return ErrDuplicate
	}

	stored := *question
	stored.Options = append([]string(nil), question.Options...)
	s.questions[question.ID] = &stored

	return nil
}

// GetQuestions возвращает вопросы в порядке ids.
func (s *MemoryStorage) GetQuestions(ctx context.Context, ids []string) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		question, ok := s.questions[id]
		if !ok {
			continue
		}

		found := *question
		found.Options = append([]string(nil), question.Options...)
		questions = append(questions, found)
	}

	return questions, nil
}

// CreateTest сохраняет тест.
func (s *MemoryStorage) CreateTest(ctx context.Context, test *models.Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if test.ID == "" {
		test.ID = uuid.NewString()
	}
	if _, ok := s.tests[test.ID]; ok {
		return ErrDuplicate
	}

	s.tests[test.ID] = copyTest(test)
	s.testOrder = append(s.testOrder, test.ID)

	return nil
}

// GetTest возвращает тест по ID.
func (s *MemoryStorage) GetTest(ctx context.Context, id string) (*models.Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	test, ok := s.tests[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copyTest(test), nil
}

// ListTestsByCategory возвращает тесты категории в порядке добавления.
func (s *MemoryStorage) ListTestsByCategory(ctx context.Context, categoryID string) ([]models.Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tests := make([]models.Test, 0)
	for _, id := range s.testOrder {
		test := s.tests[id]
		if test.CategoryID == categoryID {
			tests = append(tests, *copyTest(test))
		}
	}

	return tests, nil
}

// CountTestsByCategory возвращает количество тестов категории.
func (s *MemoryStorage) CountTestsByCategory(ctx context.Context, categoryID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, test := range s.tests {
		if test.CategoryID == categoryID {
			count++
		}
	}

	return count, nil
}

// CreateResult сохраняет результат.
func (s *MemoryStorage) CreateResult(ctx context.Context, result *models.TestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}

	s.results = append(s.results, copyResult(result))

	return nil
}

// GetLatestResult возвращает самый свежий результат пользователя по тесту.
func (s *MemoryStorage) GetLatestResult(ctx context.Context, testID, userID string) (*models.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.TestResult
	for _, result := range s.results {
		if result.TestID != testID || result.UserID != userID {
			continue
		}
		// при равном времени побеждает более поздняя запись
		if latest == nil || !result.CompletedAt.Before(latest.CompletedAt) {
			latest = result
		}
	}

	if latest == nil {
		return nil, ErrNotFound
	}

	return copyResult(latest), nil
}

// ListResultsByUser возвращает результаты пользователя, новые первыми.
func (s *MemoryStorage) ListResultsByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.TestResult, 0)
	for i := len(s.results) - 1; i >= 0; i-- {
		if s.results[i].UserID == userID {
			results = append(results, *copyResult(s.results[i]))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	})

	return results, nil
}

// Reset удаляет все документы.
func (s *MemoryStorage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.init()

	return nil
}

// Close ничего не делает для хранилища в памяти.
func (s *MemoryStorage) Close(ctx context.Context) error {
	return nil
}

func copyTest(test *models.Test) *models.Test {
	c := *test
	c.QuestionIDs = append([]string(nil), test.QuestionIDs...)
	c.Instructions = append([]string(nil), test.Instructions...)
	return &c
}

func copyResult(result *models.TestResult) *models.TestResult {
	c := *result
	c.Answers = append([]models.AnswerRecord(nil), result.Answers...)
	return &c
}
