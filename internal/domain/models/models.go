package models

import (
	"time"
)

// Файл с моделями документов, которые хранятся в БД.
// Сервисы создают экземпляры моделей, заполняют их данными и
// передают в соответствующий метод хранилища.

// UnansweredOption — значение selectedOption для вопроса без ответа.
const UnansweredOption = -1

// User определяет модель пользователя
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Category определяет модель категории тестов
type Category struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Question определяет модель вопроса вместе с правильным ответом.
// Клиенту во время прохождения теста отдается только PublicQuestion.
type Question struct {
	ID            string   `json:"_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	Marks         int      `json:"marks"`
}

// Test определяет модель теста. Порядок QuestionIDs важен.
type Test struct {
	ID             string   `json:"_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	CategoryID     string   `json:"category"`
	TotalQuestions int      `json:"totalQuestions"`
	TotalMarks     int      `json:"totalMarks"`
	PassingMarks   int      `json:"passingMarks"`
	Duration       int      `json:"duration"` // в минутах
	QuestionIDs    []string `json:"questions"`
	Instructions   []string `json:"instructions"`
}

// AnswerRecord — запись об ответе на один вопрос внутри результата
type AnswerRecord struct {
	QuestionID     string `json:"questionId"`
	SelectedOption int    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

// TestResult определяет модель результата одной попытки прохождения теста
type TestResult struct {
	ID             string         `json:"_id"`
	UserID         string         `json:"user"`
	TestID         string         `json:"testId"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	WrongAnswers   int            `json:"wrongAnswers"`
	SkippedAnswers int            `json:"skippedAnswers"`
	Answers        []AnswerRecord `json:"answers"`
	CompletedAt    time.Time      `json:"completedAt"`
}
