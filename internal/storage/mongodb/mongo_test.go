package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/storage"
)

func newMockStorage(mt *mtest.T) *Storage {
	return &Storage{
		client:     mt.Client,
		users:      mt.DB.Collection("users"),
		categories: mt.DB.Collection("categories"),
		questions:  mt.DB.Collection("questions"),
		tests:      mt.DB.Collection("tests"),
		results:    mt.DB.Collection("testresults"),
	}
}

func questionBSON(id primitive.ObjectID, text string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "text", Value: text},
		{Key: "options", Value: bson.A{"a", "b"}},
		{Key: "correctOption", Value: 1},
		{Key: "marks", Value: 2},
	}
}

func TestStorage_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("get questions keeps requested order", func(mt *mtest.T) {
		s := newMockStorage(mt)
		q1, q2, q3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

		// сервер отдаёт документы в своём порядке, q2 отсутствует
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "quiz.questions", mtest.FirstBatch,
			questionBSON(q3, "third"),
			questionBSON(q1, "first"),
		))

		questions, err := s.GetQuestions(ctx, []string{q1.Hex(), "not-an-id", q2.Hex(), q3.Hex()})
		require.NoError(mt, err)
		require.Len(mt, questions, 2)

		assert.Equal(mt, q1.Hex(), questions[0].ID)
		assert.Equal(mt, "first", questions[0].Text)
		assert.Equal(mt, q3.Hex(), questions[1].ID)
		assert.Equal(mt, []string{"a", "b"}, questions[1].Options)
		assert.Equal(mt, 1, questions[1].CorrectOption)
		assert.Equal(mt, 2, questions[1].Marks)
	})

	mt.Run("create user assigns id", func(mt *mtest.T) {
		s := newMockStorage(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Name: "Test User", Email: "test@example.com", PasswordHash: "hash"}
		require.NoError(mt, s.CreateUser(ctx, user))

		_, err := primitive.ObjectIDFromHex(user.ID)
		assert.NoError(mt, err)
		assert.False(mt, user.CreatedAt.IsZero())
	})

	mt.Run("create user with taken email", func(mt *mtest.T) {
		s := newMockStorage(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: quiz.users index: email_1",
		}))

		err := s.CreateUser(ctx, &models.User{Name: "B", Email: "test@example.com", PasswordHash: "hash"})
		assert.ErrorIs(mt, err, storage.ErrDuplicate)
	})

	mt.Run("get user by email not found", func(mt *mtest.T) {
		s := newMockStorage(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "quiz.users", mtest.FirstBatch))

		_, err := s.GetUserByEmail(ctx, "missing@example.com")
		assert.ErrorIs(mt, err, storage.ErrNotFound)
	})

	mt.Run("get user by malformed id", func(mt *mtest.T) {
		s := newMockStorage(mt)

		_, err := s.GetUserByID(ctx, "not-an-id")
		assert.ErrorIs(mt, err, storage.ErrNotFound)
	})

	mt.Run("get test decodes references", func(mt *mtest.T) {
		s := newMockStorage(mt)
		id, category := primitive.NewObjectID(), primitive.NewObjectID()
		q1, q2 := primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "quiz.tests", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "HTML Basics"},
			{Key: "category", Value: category},
			{Key: "totalQuestions", Value: 2},
			{Key: "totalMarks", Value: 3},
			{Key: "passingMarks", Value: 2},
			{Key: "duration", Value: 10},
			{Key: "questions", Value: bson.A{q2, q1}},
		}))

		test, err := s.GetTest(ctx, id.Hex())
		require.NoError(mt, err)

		assert.Equal(mt, id.Hex(), test.ID)
		assert.Equal(mt, category.Hex(), test.CategoryID)
		assert.Equal(mt, []string{q2.Hex(), q1.Hex()}, test.QuestionIDs)
		assert.Equal(mt, []string{}, test.Instructions)
	})
}

func TestWrapErr(t *testing.T) {
	other := errors.New("connection reset")
	duplicate := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "duplicate key"}}}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no documents", mongo.ErrNoDocuments, storage.ErrNotFound},
		{"duplicate key", duplicate, storage.ErrDuplicate},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapErr(tt.err)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestObjectIDs(t *testing.T) {
	_, err := objectID("zzz")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	oid := primitive.NewObjectID()
	got, err := newObjectID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, got)

	fresh, err := newObjectID("")
	require.NoError(t, err)
	assert.False(t, fresh.IsZero())

	_, err = objectIDs([]string{oid.Hex(), "bad"})
	assert.Error(t, err)

	oids, err := objectIDs([]string{oid.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []string{oid.Hex()}, hexIDs(oids))
}

func TestDocumentModels(t *testing.T) {
	t.Run("test", func(t *testing.T) {
		doc := testDoc{
			ID:           primitive.NewObjectID(),
			Title:        "HTML Basics",
			Category:     primitive.NewObjectID(),
			Duration:     10,
			Questions:    []primitive.ObjectID{primitive.NewObjectID()},
			Instructions: nil,
		}

		m := doc.model()
		assert.Equal(t, doc.ID.Hex(), m.ID)
		assert.Equal(t, doc.Category.Hex(), m.CategoryID)
		assert.Equal(t, []string{doc.Questions[0].Hex()}, m.QuestionIDs)
		assert.NotNil(t, m.Instructions)
		assert.Empty(t, m.Instructions)
	})

	t.Run("result", func(t *testing.T) {
		completed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		question := primitive.NewObjectID()
		doc := resultDoc{
			ID:             primitive.NewObjectID(),
			User:           primitive.NewObjectID(),
			TestID:         primitive.NewObjectID(),
			Score:          3,
			TotalQuestions: 2,
			CorrectAnswers: 1,
			WrongAnswers:   1,
			Answers:        []answerDoc{{QuestionID: question, SelectedOption: 2, IsCorrect: true}},
			CompletedAt:    completed,
		}

		m := doc.model()
		assert.Equal(t, doc.User.Hex(), m.UserID)
		assert.Equal(t, doc.TestID.Hex(), m.TestID)
		assert.Equal(t, 3, m.Score)
		assert.Equal(t, completed, m.CompletedAt)
		require.Len(t, m.Answers, 1)
		assert.Equal(t, models.AnswerRecord{QuestionID: question.Hex(), SelectedOption: 2, IsCorrect: true}, m.Answers[0])
	})

	t.Run("result without answers", func(t *testing.T) {
		m := resultDoc{}.model()
		assert.NotNil(t, m.Answers)
		assert.Empty(t, m.Answers)
	})
}
