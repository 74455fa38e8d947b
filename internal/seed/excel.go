package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/quiz"
)

// ImportConfig описывает раскладку листа с вопросами.
// Колонки: A название теста, B категория, C текст вопроса, D-I варианты A-F,
// J буква правильного ответа, K баллы, L проходной балл, M длительность в минутах.
// L и M читаются из первой строки теста.
type ImportConfig struct {
	SheetName       string
	StartRow        int // с единицы, по умолчанию пропускается заголовок
	DefaultDuration int
}

// DefaultImportConfig возвращает раскладку по умолчанию.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SheetName:       "Questions",
		StartRow:        2,
		DefaultDuration: 10,
	}
}

// Индексы колонок
const (
	colTest = iota
	colCategory
	colText
	colFirstOption
	colCorrect  = colFirstOption + 6
	colMarks    = colCorrect + 1
	colPassing  = colMarks + 1
	colDuration = colPassing + 1
)

// ImportResult — каталог из книги и ошибки по строкам
type ImportResult struct {
	Catalog   *Catalog
	TotalRows int
	Imported  int
	Errors    []string
}

// ImportXLSX читает вопросы из файла .xlsx.
func ImportXLSX(path string, cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	return ReadWorkbook(f, cfg)
}

// ReadWorkbook собирает каталог из открытой книги.
// Строки с ошибками пропускаются и попадают в ImportResult.Errors.
func ReadWorkbook(f *excelize.File, cfg ImportConfig) (*ImportResult, error) {
	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	result := &ImportResult{Catalog: &Catalog{}}
	tests := make(map[string]int)
	categories := make(map[string]bool)

	for i, row := range rows {
		if i < cfg.StartRow-1 || isBlank(row) {
			continue
		}
		result.TotalRows++

		rowNum := i + 1
		question, err := parseQuestion(row, rowNum)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		title := cell(row, colTest)
		category := cell(row, colCategory)
		if title == "" || category == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: test title and category are required", rowNum))
			continue
		}

		if !categories[strings.ToLower(category)] {
			categories[strings.ToLower(category)] = true
			result.Catalog.Categories = append(result.Catalog.Categories, newCategory(category))
		}

		idx, ok := tests[title]
		if !ok {
			test, err := parseTest(row, title, category, cfg)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}
			idx = len(result.Catalog.Tests)
			tests[title] = idx
			result.Catalog.Tests = append(result.Catalog.Tests, test)
		}

		result.Catalog.Questions = append(result.Catalog.Questions, question)
		result.Catalog.Tests[idx].Questions = append(result.Catalog.Tests[idx].Questions, question.Key)
		result.Imported++
	}

	// по умолчанию проходной балл равен половине суммы баллов с округлением вверх
	marks := make(map[string]int, len(result.Catalog.Questions))
	for _, q := range result.Catalog.Questions {
		marks[q.Key] = q.Marks
	}
	for i := range result.Catalog.Tests {
		test := &result.Catalog.Tests[i]
		if test.PassingMarks > 0 {
			continue
		}
		total := 0
		for _, key := range test.Questions {
			total += marks[key]
		}
		test.PassingMarks = (total + 1) / 2
	}

	return result, nil
}

func parseQuestion(row []string, rowNum int) (QuestionSeed, error) {
	q := QuestionSeed{
		Key:  fmt.Sprintf("xlsx-row-%d", rowNum),
		Text: cell(row, colText),
	}

	for i := colFirstOption; i < colCorrect; i++ {
		option := cell(row, i)
		if option == "" {
			break
		}
		q.Options = append(q.Options, option)
	}

	correct, ok := quiz.LetterToIndex(cell(row, colCorrect))
	if !ok {
		return q, fmt.Errorf("correct answer must be a letter A-F, got %q", cell(row, colCorrect))
	}
	q.CorrectOption = correct

	q.Marks = 1
	if raw := cell(row, colMarks); raw != "" {
		marks, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("marks must be a number, got %q", raw)
		}
		q.Marks = marks
	}

	if err := quiz.ValidateQuestion(&models.Question{
		Text:          q.Text,
		Options:       q.Options,
		CorrectOption: q.CorrectOption,
		Marks:         q.Marks,
	}); err != nil {
		return q, err
	}

	return q, nil
}

func parseTest(row []string, title, category string, cfg ImportConfig) (TestSeed, error) {
	test := TestSeed{
		Title:    title,
		Category: category,
		Duration: cfg.DefaultDuration,
	}

	if raw := cell(row, colPassing); raw != "" {
		passing, err := strconv.Atoi(raw)
		if err != nil {
			return test, fmt.Errorf("passing marks must be a number, got %q", raw)
		}
		test.PassingMarks = passing
	}

	if raw := cell(row, colDuration); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			return test, fmt.Errorf("duration must be a number of minutes, got %q", raw)
		}
		test.Duration = duration
	}

	return test, nil
}

func newCategory(name string) models.Category {
	return models.Category{Name: name, Description: "Imported " + name + " tests"}
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
