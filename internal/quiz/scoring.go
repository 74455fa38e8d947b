package quiz

import (
	"math"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

// Score проверяет ответы по вопросам теста в их сохранённом порядке.
//
// Ответы на вопросы, которых нет в questions, игнорируются. Если на один
// вопрос пришло несколько ответов, учитывается последний. Отсутствующий
// ответ, nil и UnansweredOption считаются пропуском, любой другой
// неверный индекс считается ошибкой.
func Score(questions []models.Question, answers []Answer) Scorecard {
	selected := make(map[string]*int, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedOption
	}

	card := Scorecard{
		TotalQuestions: len(questions),
		Answers:        make([]models.AnswerRecord, 0, len(questions)),
	}

	for _, q := range questions {
		option := selected[q.ID]
		if option == nil || *option == models.UnansweredOption {
			card.SkippedAnswers++
			card.Answers = append(card.Answers, models.AnswerRecord{
				QuestionID:     q.ID,
				SelectedOption: models.UnansweredOption,
			})
			continue
		}

		isCorrect := *option == q.CorrectOption
		if isCorrect {
			card.Score += q.Marks
			card.CorrectAnswers++
		} else {
			card.WrongAnswers++
		}

		card.Answers = append(card.Answers, models.AnswerRecord{
			QuestionID:     q.ID,
			SelectedOption: *option,
			IsCorrect:      isCorrect,
		})
	}

	return card
}

// Percentage возвращает долю набранных баллов, округлённую до целого.
func Percentage(score, totalMarks int) int {
	if totalMarks <= 0 {
		return 0
	}
	return int(math.Round(float64(score) * 100 / float64(totalMarks)))
}

// Passed сообщает, набран ли проходной балл.
func Passed(score, passingMarks int) bool {
	return score >= passingMarks
}
