package quiz

import "strings"

// AnswerLetters — допустимые буквы для ответов (A-F для до 6 вариантов).
var AnswerLetters = []string{"A", "B", "C", "D", "E", "F"}

// LetterToIndex преобразует букву в индекс (A=0, B=1, ...). Регистр не важен.
func LetterToIndex(letter string) (int, bool) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, l := range AnswerLetters {
		if l == letter {
			return i, true
		}
	}

	return -1, false
}

// IndexToLetter преобразует индекс в букву (0=A, 1=B, ...).
func IndexToLetter(idx int) string {
	if idx >= 0 && idx < len(AnswerLetters) {
		return AnswerLetters[idx]
	}

	return ""
}
