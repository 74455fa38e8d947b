package storage

import (
	"context"
	"errors"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

// Ошибки хранилища
var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate document")
)

// UserRepo определяет интерфейс для хранения пользователей.
type UserRepo interface {
	// CreateUser сохраняет пользователя и заполняет его ID.
	// Возвращает ErrDuplicate, если email уже занят.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID возвращает пользователя по ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CatalogRepo определяет интерфейс для справочных данных: категорий, тестов и вопросов.
type CatalogRepo interface {
	// CreateCategory сохраняет категорию и заполняет её ID.
	CreateCategory(ctx context.Context, category *models.Category) error

	// ListCategories возвращает все категории.
	ListCategories(ctx context.Context) ([]models.Category, error)

	// GetCategory возвращает категорию по ID.
	GetCategory(ctx context.Context, id string) (*models.Category, error)

	// CreateQuestion сохраняет вопрос и заполняет его ID.
	CreateQuestion(ctx context.Context, question *models.Question) error

	// GetQuestions возвращает вопросы в порядке переданных ids.
	// Несуществующие ids пропускаются.
	GetQuestions(ctx context.Context, ids []string) ([]models.Question, error)

	// CreateTest сохраняет тест и заполняет его ID.
	CreateTest(ctx context.Context, test *models.Test) error

	// GetTest возвращает тест по ID.
	GetTest(ctx context.Context, id string) (*models.Test, error)

	// ListTestsByCategory возвращает тесты категории.
	ListTestsByCategory(ctx context.Context, categoryID string) ([]models.Test, error)

	// CountTestsByCategory возвращает количество тестов категории.
	CountTestsByCategory(ctx context.Context, categoryID string) (int, error)
}

// ResultRepo определяет интерфейс для хранения результатов тестов.
type ResultRepo interface {
	// CreateResult сохраняет результат и заполняет его ID.
	CreateResult(ctx context.Context, result *models.TestResult) error

	// GetLatestResult возвращает самый свежий результат пользователя по тесту.
	GetLatestResult(ctx context.Context, testID, userID string) (*models.TestResult, error)

	// ListResultsByUser возвращает результаты пользователя, новые первыми.
	ListResultsByUser(ctx context.Context, userID string) ([]models.TestResult, error)
}

// Storage объединяет все коллекции приложения.
type Storage interface {
	UserRepo
	CatalogRepo
	ResultRepo

	// Reset удаляет все документы (используется при заполнении демо-данными).
	Reset(ctx context.Context) error

	// Close освобождает соединения с БД.
	Close(ctx context.Context) error
}
