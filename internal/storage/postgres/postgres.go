package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/storage"
)

const uniqueViolation = "23505"

var _ storage.Storage = (*Storage)(nil)

// Storage реализует storage.Storage поверх PostgreSQL.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage подключается к БД по dsn и создаёт схему.
func NewStorage(ctx context.Context, dsn string) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &Storage{pool: pool}
	if err = s.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	query := `
	INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)
	`

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	return wrapErr(err)
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `
	SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1
	`

	return s.getUser(ctx, query, id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
	SELECT id, name, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)
	`

	return s.getUser(ctx, query, email)
}

func (s *Storage) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.pool.QueryRow(ctx, query, arg).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, wrapErr(err)
	}

	return &user, nil
}

func (s *Storage) CreateCategory(ctx context.Context, category *models.Category) error {
	query := `
	INSERT INTO categories (id, name, description) VALUES ($1, $2, $3)
	`

	if category.ID == "" {
		category.ID = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx, query, category.ID, category.Name, category.Description)
	return wrapErr(err)
}

func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `
	SELECT id, name, description FROM categories ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (s *Storage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	query := `
	SELECT id, name, description FROM categories WHERE id = $1
	`

	var c models.Category
	if err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return nil, wrapErr(err)
	}

	return &c, nil
}

func (s *Storage) CreateQuestion(ctx context.Context, question *models.Question) error {
	query := `
	INSERT INTO questions (id, text, options, correct_option, marks) VALUES ($1, $2, $3, $4, $5)
	`

	if question.ID == "" {
		question.ID = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx, query,
		question.ID, question.Text, question.Options, question.CorrectOption, question.Marks)
	return wrapErr(err)
}

// GetQuestions возвращает вопросы в порядке ids; порядок восстанавливается на стороне Go.
func (s *Storage) GetQuestions(ctx context.Context, ids []string) ([]models.Question, error) {
	query := `
	SELECT id, text, options, correct_option, marks FROM questions WHERE id = ANY($1)
	`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	byID := make(map[string]models.Question, len(ids))
	for rows.Next() {
		var q models.Question
		if err = rows.Scan(&q.ID, &q.Text, &q.Options, &q.CorrectOption, &q.Marks); err != nil {
			return nil, err
		}
		byID[q.ID] = q
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}

	return questions, nil
}

const testColumns = `id, title, description, category_id, total_questions, total_marks,
	passing_marks, duration, question_ids, instructions`

func (s *Storage) CreateTest(ctx context.Context, test *models.Test) error {
	query := `
	INSERT INTO tests (` + testColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if test.ID == "" {
		test.ID = uuid.NewString()
	}

	_, err := s.pool.Exec(ctx, query,
		test.ID,
		test.Title,
		test.Description,
		test.CategoryID,
		test.TotalQuestions,
		test.TotalMarks,
		test.PassingMarks,
		test.Duration,
		nonNil(test.QuestionIDs),
		nonNil(test.Instructions),
	)
	return wrapErr(err)
}

func (s *Storage) GetTest(ctx context.Context, id string) (*models.Test, error) {
	query := `
	SELECT ` + testColumns + ` FROM tests WHERE id = $1
	`

	test, err := scanTest(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, wrapErr(err)
	}

	return test, nil
}

func (s *Storage) ListTestsByCategory(ctx context.Context, categoryID string) ([]models.Test, error) {
	query := `
	SELECT ` + testColumns + ` FROM tests WHERE category_id = $1 ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query, categoryID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	tests := make([]models.Test, 0)
	for rows.Next() {
		test, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *test)
	}

	return tests, rows.Err()
}

func (s *Storage) CountTestsByCategory(ctx context.Context, categoryID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM tests WHERE category_id = $1
	`

	var count int
	if err := s.pool.QueryRow(ctx, query, categoryID).Scan(&count); err != nil {
		return 0, wrapErr(err)
	}

	return count, nil
}

func (s *Storage) CreateResult(ctx context.Context, result *models.TestResult) error {
	query := `
	INSERT INTO test_results (
		id, user_id, test_id, score, total_questions, correct_answers,
		wrong_answers, skipped_answers, answers, completed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}

	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	_, err = s.pool.Exec(ctx, query,
		result.ID,
		result.UserID,
		result.TestID,
		result.Score,
		result.TotalQuestions,
		result.CorrectAnswers,
		result.WrongAnswers,
		result.SkippedAnswers,
		string(answers),
		result.CompletedAt,
	)
	return wrapErr(err)
}

const resultColumns = `id, user_id, test_id, score, total_questions, correct_answers,
	wrong_answers, skipped_answers, answers, completed_at`

func (s *Storage) GetLatestResult(ctx context.Context, testID, userID string) (*models.TestResult, error) {
	query := `
	SELECT ` + resultColumns + ` FROM test_results
	WHERE test_id = $1 AND user_id = $2
	ORDER BY completed_at DESC, seq DESC
	LIMIT 1
	`

	result, err := scanResult(s.pool.QueryRow(ctx, query, testID, userID))
	if err != nil {
		return nil, wrapErr(err)
	}

	return result, nil
}

func (s *Storage) ListResultsByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	query := `
	SELECT ` + resultColumns + ` FROM test_results
	WHERE user_id = $1
	ORDER BY completed_at DESC, seq DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()

	results := make([]models.TestResult, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	return results, rows.Err()
}

func (s *Storage) Reset(ctx context.Context) error {
	query := `
	TRUNCATE test_results, tests, questions, categories, users
	`

	_, err := s.pool.Exec(ctx, query)
	return err
}

func (s *Storage) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

func scanTest(row pgx.Row) (*models.Test, error) {
	var t models.Test
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CategoryID,
		&t.TotalQuestions,
		&t.TotalMarks,
		&t.PassingMarks,
		&t.Duration,
		&t.QuestionIDs,
		&t.Instructions,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func scanResult(row pgx.Row) (*models.TestResult, error) {
	var (
		r       models.TestResult
		answers []byte
	)
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.TestID,
		&r.Score,
		&r.TotalQuestions,
		&r.CorrectAnswers,
		&r.WrongAnswers,
		&r.SkippedAnswers,
		&answers,
		&r.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(answers, &r.Answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers of result %s: %w", r.ID, err)
	}

	return &r, nil
}

func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, pgErr.ConstraintName)
	}

	return err
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
