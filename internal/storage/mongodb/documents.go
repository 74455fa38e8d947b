package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/storage"
)

// Документы коллекций. Ссылки между коллекциями хранятся как ObjectID,
// наружу отдаются hex-строками.

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type categoryDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
}

type questionDoc struct {
	ID            primitive.ObjectID `bson:"_id"`
	Text          string             `bson:"text"`
	Options       []string           `bson:"options"`
	CorrectOption int                `bson:"correctOption"`
	Marks         int                `bson:"marks"`
}

type testDoc struct {
	ID             primitive.ObjectID   `bson:"_id"`
	Title          string               `bson:"title"`
	Description    string               `bson:"description"`
	Category       primitive.ObjectID   `bson:"category"`
	TotalQuestions int                  `bson:"totalQuestions"`
	TotalMarks     int                  `bson:"totalMarks"`
	PassingMarks   int                  `bson:"passingMarks"`
	Duration       int                  `bson:"duration"`
	Questions      []primitive.ObjectID `bson:"questions"`
	Instructions   []string             `bson:"instructions"`
}

type answerDoc struct {
	QuestionID     primitive.ObjectID `bson:"questionId"`
	SelectedOption int                `bson:"selectedOption"`
	IsCorrect      bool               `bson:"isCorrect"`
}

type resultDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	User           primitive.ObjectID `bson:"user"`
	TestID         primitive.ObjectID `bson:"testId"`
	Score          int                `bson:"score"`
	TotalQuestions int                `bson:"totalQuestions"`
	CorrectAnswers int                `bson:"correctAnswers"`
	WrongAnswers   int                `bson:"wrongAnswers"`
	SkippedAnswers int                `bson:"skippedAnswers"`
	Answers        []answerDoc        `bson:"answers"`
	CompletedAt    time.Time          `bson:"completedAt"`
}

// objectID разбирает hex-строку; невалидный ID означает отсутствующий документ.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, storage.ErrNotFound
	}
	return oid, nil
}

// newObjectID возвращает ID из строки, если он задан, иначе создаёт новый.
func newObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NewObjectID(), nil
	}
	return primitive.ObjectIDFromHex(id)
}

func objectIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

func hexIDs(oids []primitive.ObjectID) []string {
	ids := make([]string, 0, len(oids))
	for _, oid := range oids {
		ids = append(ids, oid.Hex())
	}
	return ids
}

func (d userDoc) model() *models.User {
	return &models.User{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

func (d categoryDoc) model() models.Category {
	return models.Category{ID: d.ID.Hex(), Name: d.Name, Description: d.Description}
}

func (d questionDoc) model() models.Question {
	return models.Question{
		ID:            d.ID.Hex(),
		Text:          d.Text,
		Options:       d.Options,
		CorrectOption: d.CorrectOption,
		Marks:         d.Marks,
	}
}

func (d testDoc) model() models.Test {
	instructions := d.Instructions
	if instructions == nil {
		instructions = []string{}
	}
	return models.Test{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Description:    d.Description,
		CategoryID:     d.Category.Hex(),
		TotalQuestions: d.TotalQuestions,
		TotalMarks:     d.TotalMarks,
		PassingMarks:   d.PassingMarks,
		Duration:       d.Duration,
		QuestionIDs:    hexIDs(d.Questions),
		Instructions:   instructions,
	}
}

func (d resultDoc) model() models.TestResult {
	answers := make([]models.AnswerRecord, 0, len(d.Answers))
	for _, a := range d.Answers {
		answers = append(answers, models.AnswerRecord{
			QuestionID:     a.QuestionID.Hex(),
			SelectedOption: a.SelectedOption,
			IsCorrect:      a.IsCorrect,
		})
	}
	return models.TestResult{
		ID:             d.ID.Hex(),
		UserID:         d.User.Hex(),
		TestID:         d.TestID.Hex(),
		Score:          d.Score,
		TotalQuestions: d.TotalQuestions,
		CorrectAnswers: d.CorrectAnswers,
		WrongAnswers:   d.WrongAnswers,
		SkippedAnswers: d.SkippedAnswers,
		Answers:        answers,
		CompletedAt:    d.CompletedAt,
	}
}
