package quiz

import (
	"errors"
	"fmt"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

var ErrInvalidCatalog = errors.New("invalid catalog entry")

// ValidateQuestion проверяет вопрос перед загрузкой в каталог.
func ValidateQuestion(q *models.Question) error {
	if q.Text == "" {
		return fmt.Errorf("%w, missing field text", ErrInvalidCatalog)
	}

	if len(q.Options) < 2 {
		return fmt.Errorf("%w, amount of options must be at least two in %q", ErrInvalidCatalog, q.Text)
	}

	if len(q.Options) > len(AnswerLetters) {
		return fmt.Errorf("%w, at most %d options are allowed in %q", ErrInvalidCatalog, len(AnswerLetters), q.Text)
	}

	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return fmt.Errorf("%w, index of correct answer in %q is out of range", ErrInvalidCatalog, q.Text)
	}

	if q.Marks <= 0 {
		return fmt.Errorf("%w, marks must be positive in %q", ErrInvalidCatalog, q.Text)
	}

	return nil
}

// ValidateTest проверяет тест перед загрузкой в каталог.
func ValidateTest(t *models.Test) error {
	if t.Title == "" {
		return fmt.Errorf("%w, missing field title", ErrInvalidCatalog)
	}

	if t.CategoryID == "" {
		return fmt.Errorf("%w, test %q has no category", ErrInvalidCatalog, t.Title)
	}

	if len(t.QuestionIDs) == 0 {
		return fmt.Errorf("%w, test %q needs at least one question", ErrInvalidCatalog, t.Title)
	}

	if t.Duration <= 0 {
		return fmt.Errorf("%w, duration of %q must be positive", ErrInvalidCatalog, t.Title)
	}

	if t.PassingMarks < 0 || t.PassingMarks > t.TotalMarks {
		return fmt.Errorf("%w, passing marks of %q are out of range", ErrInvalidCatalog, t.Title)
	}

	return nil
}
