package quiz

import (
	"errors"
	"time"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

// Ошибки каталога, выдачи тестов и результатов
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrTestNotFound      = errors.New("test not found")
	ErrResultNotFound    = errors.New("test result not found")
	ErrInvalidSubmission = errors.New("invalid submission")
)

// CategorySummary — категория со счётчиком тестов
type CategorySummary struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TestsCount  int    `json:"testsCount"`
}

// TestSummary — тест без вопросов и инструкций
type TestSummary struct {
	ID             string `json:"_id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	TotalQuestions int    `json:"totalQuestions"`
	TotalMarks     int    `json:"totalMarks"`
	PassingMarks   int    `json:"passingMarks"`
	Duration       int    `json:"duration"`
}

// CategoryTests — ответ на запрос тестов категории
type CategoryTests struct {
	CategoryName string        `json:"categoryName"`
	Tests        []TestSummary `json:"tests"`
}

// TestDetails — метаданные теста для страницы инструкций
type TestDetails struct {
	TestSummary
	Instructions []string `json:"instructions"`
}

// PublicQuestion — вопрос без правильного ответа
type PublicQuestion struct {
	ID      string   `json:"_id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Marks   int      `json:"marks"`
}

// TestQuestions — вопросы теста в сохранённом порядке
type TestQuestions struct {
	ID             string           `json:"_id"`
	Title          string           `json:"title"`
	Duration       int              `json:"duration"`
	TotalQuestions int              `json:"totalQuestions"`
	Questions      []PublicQuestion `json:"questions"`
}

// Answer — ответ пользователя на один вопрос.
// nil в SelectedOption означает, что вопрос пропущен.
type Answer struct {
	QuestionID     string `json:"questionId" validate:"required"`
	SelectedOption *int   `json:"selectedOption"`
}

// Submission — тело запроса отправки теста
type Submission struct {
	Answers []Answer `json:"answers" validate:"dive"`
}

// Scorecard — итог проверки ответов
type Scorecard struct {
	Score          int
	TotalQuestions int
	CorrectAnswers int
	WrongAnswers   int
	SkippedAnswers int
	Answers        []models.AnswerRecord
}

// TestRef — поля теста, которые подставляются в результат
type TestRef struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	TotalMarks   int    `json:"totalMarks"`
	PassingMarks int    `json:"passingMarks"`
}

// ReviewedQuestion — вопрос вместе с правильным ответом для разбора
type ReviewedQuestion struct {
	ID            string   `json:"_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Marks         int      `json:"marks"`
}

// ReviewedAnswer — ответ из результата с подставленным вопросом.
// Question равен nil, если вопрос удалён из каталога.
type ReviewedAnswer struct {
	Question       *ReviewedQuestion `json:"questionId"`
	SelectedOption int               `json:"selectedOption"`
	IsCorrect      bool              `json:"isCorrect"`
}

// ResultDetail — результат с полным разбором вопросов
type ResultDetail struct {
	ID             string           `json:"_id"`
	UserID         string           `json:"user"`
	Test           *TestRef         `json:"testId"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	CorrectAnswers int              `json:"correctAnswers"`
	WrongAnswers   int              `json:"wrongAnswers"`
	SkippedAnswers int              `json:"skippedAnswers"`
	Answers        []ReviewedAnswer `json:"answers"`
	CompletedAt    time.Time        `json:"completedAt"`
	Passed         bool             `json:"passed"`
	Percentage     int              `json:"percentage"`
}

// ResultSummary — элемент истории результатов
type ResultSummary struct {
	ID             string                `json:"_id"`
	UserID         string                `json:"user"`
	Test           *TestRef              `json:"testId"`
	Score          int                   `json:"score"`
	TotalQuestions int                   `json:"totalQuestions"`
	CorrectAnswers int                   `json:"correctAnswers"`
	WrongAnswers   int                   `json:"wrongAnswers"`
	SkippedAnswers int                   `json:"skippedAnswers"`
	Answers        []models.AnswerRecord `json:"answers"`
	CompletedAt    time.Time             `json:"completedAt"`
	Passed         bool                  `json:"passed"`
	Percentage     int                   `json:"percentage"`
}
