package frontend

import (
	"fmt"
	"sync"

	"github.com/letsssgooo/quizServer/internal/client"
	"github.com/letsssgooo/quizServer/internal/quiz"
)

// Session хранит локальное состояние прохождения теста:
// текущий вопрос и выбранные ответы. Безопасна для конкурентного доступа.
type Session struct {
	testID    string
	title     string
	duration  int
	questions []quiz.PublicQuestion
	current   int
	answers   map[string]int
	mu        sync.Mutex
}

func NewSession(testID string, tq *quiz.TestQuestions) *Session {
	return &Session{
		testID:    testID,
		title:     tq.Title,
		duration:  tq.Duration,
		questions: tq.Questions,
		answers:   make(map[string]int),
	}
}

func (s *Session) Len() int {
	return len(s.questions)
}

// Current возвращает номер текущего вопроса (с нуля) и сам вопрос.
func (s *Session) Current() (int, quiz.PublicQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current, s.questions[s.current]
}

// Select отмечает вариант option в текущем вопросе.
func (s *Session) Select(option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.questions[s.current]
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("option %d is out of range", option+1)
	}

	s.answers[q.ID] = option

	return nil
}

// Selected возвращает выбранный вариант вопроса questionID.
func (s *Session) Selected(questionID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	option, ok := s.answers[questionID]
	return option, ok
}

func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current >= len(s.questions)-1 {
		return false
	}
	s.current++

	return true
}

func (s *Session) Prev() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == 0 {
		return false
	}
	s.current--

	return true
}

func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.current == len(s.questions)-1
}

func (s *Session) Answered() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.answers)
}

// Answers возвращает выбранные ответы в порядке вопросов.
// Вопросы без ответа не попадают в список, сервер считает их пропущенными.
func (s *Session) Answers() []quiz.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()

	answers := make([]quiz.Answer, 0, len(s.answers))
	for _, q := range s.questions {
		option, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		answers = append(answers, quiz.Answer{QuestionID: q.ID, SelectedOption: &option})
	}

	return answers
}

// submitLatch пропускает только одну успешную отправку теста.
// Вызовы сериализуются, поэтому таймер и ручная отправка не уходят на сервер вместе.
// После ошибки сети отправку можно повторить.
type submitLatch struct {
	mu       sync.Mutex
	done     bool
	resultID string
}

// Submit вызывает send, если тест ещё не отправлен.
// posted равен true только для вызова, который завершил отправку.
func (l *submitLatch) Submit(send func() (string, error)) (resultID string, posted bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.resultID, false, nil
	}

	resultID, err = send()
	if err != nil && !client.IsAlreadySubmitted(err) {
		return "", false, err
	}

	l.done = true
	l.resultID = resultID

	return resultID, true, nil
}

// Done сообщает, отправлен ли тест.
func (l *submitLatch) Done() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.done
}
