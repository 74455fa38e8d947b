package frontend

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/letsssgooo/quizServer/internal/quiz"
)

var (
	title   = color.New(color.Bold, color.FgCyan).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	bad     = color.New(color.FgRed).SprintFunc()
	muted   = color.New(color.Faint).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
)

// FormatTime печатает оставшееся время как mm:ss или h:mm:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}

func passLabel(passed bool) string {
	if passed {
		return good("Passed")
	}
	return bad("Failed")
}

func testTitle(ref *quiz.TestRef) string {
	if ref == nil {
		return "Deleted test"
	}
	return ref.Title
}

func renderDashboard(w io.Writer, name string, results []quiz.ResultSummary) {
	fmt.Fprintf(w, "\n%s\n", title(fmt.Sprintf("Welcome, %s!", name)))

	if len(results) == 0 {
		fmt.Fprintln(w, muted(msgNoResults))
	} else {
		fmt.Fprintln(w, "My results:")
		for i, r := range results {
			marks := 0
			if r.Test != nil {
				marks = r.Test.TotalMarks
			}
			fmt.Fprintf(w, "%2d. %s  %s  Score: %d/%d (%d%%)  Correct: %d/%d  %s\n",
				i+1, testTitle(r.Test), passLabel(r.Passed), r.Score, marks, r.Percentage,
				r.CorrectAnswers, r.TotalQuestions, r.CompletedAt.Format("2006-01-02 15:04"))
		}
	}

	fmt.Fprintln(w, muted(msgDashboardMenu))
}

func renderCategories(w io.Writer, categories []quiz.CategorySummary) {
	fmt.Fprintf(w, "\n%s\n", title("Categories"))
	for i, c := range categories {
		fmt.Fprintf(w, "%2d. %s (%d tests)", i+1, c.Name, c.TestsCount)
		if c.Description != "" {
			fmt.Fprintf(w, " - %s", c.Description)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, muted(msgListMenu))
}

func renderTests(w io.Writer, ct *quiz.CategoryTests) {
	fmt.Fprintf(w, "\n%s\n", title(fmt.Sprintf("Tests in %s", ct.CategoryName)))
	if len(ct.Tests) == 0 {
		fmt.Fprintln(w, muted("No tests in this category yet."))
	}
	for i, t := range ct.Tests {
		fmt.Fprintf(w, "%2d. %s - %d questions, %d marks, pass at %d, %d min\n",
			i+1, t.Title, t.TotalQuestions, t.TotalMarks, t.PassingMarks, t.Duration)
	}
	fmt.Fprintln(w, muted(msgListMenu))
}

func renderInstructions(w io.Writer, t *quiz.TestDetails) {
	fmt.Fprintf(w, "\n%s\n", title(t.Title))
	if t.Description != "" {
		fmt.Fprintln(w, t.Description)
	}
	fmt.Fprintf(w, "Questions: %d   Total marks: %d   Passing marks: %d   Duration: %d min\n",
		t.TotalQuestions, t.TotalMarks, t.PassingMarks, t.Duration)

	if len(t.Instructions) > 0 {
		fmt.Fprintln(w, "Instructions:")
		for _, line := range t.Instructions {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
	fmt.Fprintln(w, muted(msgInstructionsMenu))
}

func renderQuestion(w io.Writer, s *Session, secondsLeft int) {
	idx, q := s.Current()
	progress := (idx + 1) * 100 / s.Len()

	fmt.Fprintf(w, "\n%s  Question %d of %d  [%d%%]  Time left: %s  Answered: %d\n",
		title(s.title), idx+1, s.Len(), progress, warning(FormatTime(secondsLeft)), s.Answered())
	fmt.Fprintf(w, "%s (%d marks)\n", q.Text, q.Marks)

	selected, answered := s.Selected(q.ID)
	for i, option := range q.Options {
		marker := "  "
		if answered && selected == i {
			marker = good("> ")
		}
		fmt.Fprintf(w, "%s%s) %s\n", marker, quiz.IndexToLetter(i), option)
	}

	if s.IsLast() {
		fmt.Fprintln(w, muted("This is the last question, press [s] to submit."))
	}
}

func renderReview(w io.Writer, r *quiz.ResultDetail) {
	marks := 0
	if r.Test != nil {
		marks = r.Test.TotalMarks
	}

	fmt.Fprintf(w, "\n%s  %s\n", title(testTitle(r.Test)), passLabel(r.Passed))
	fmt.Fprintf(w, "Score: %d/%d (%d%%)\n", r.Score, marks, r.Percentage)
	fmt.Fprintf(w, "Correct: %d   Wrong: %d   Skipped: %d   Total: %d\n",
		r.CorrectAnswers, r.WrongAnswers, r.SkippedAnswers, r.TotalQuestions)

	for i, a := range r.Answers {
		if a.Question == nil {
			fmt.Fprintf(w, "\n%d. %s\n", i+1, muted("This question is no longer available."))
			continue
		}

		q := a.Question
		fmt.Fprintf(w, "\n%d. %s\n", i+1, q.Text)
		for j, option := range q.Options {
			line := fmt.Sprintf("   %s) %s", quiz.IndexToLetter(j), option)
			switch {
			case j == q.CorrectOption && j == a.SelectedOption:
				line = good(line + "  (your answer, correct)")
			case j == q.CorrectOption:
				line = good(line + "  (correct answer)")
			case j == a.SelectedOption:
				line = bad(line + "  (your answer)")
			}
			fmt.Fprintln(w, line)
		}
		if a.SelectedOption < 0 {
			fmt.Fprintln(w, "   "+warning(msgNotAnswered))
		}
	}
}

// parseOption понимает букву (A, b) или номер варианта с единицы.
func parseOption(input string) (int, bool) {
	if idx, ok := quiz.LetterToIndex(input); ok {
		return idx, true
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 {
		return -1, false
	}

	return n - 1, true
}
