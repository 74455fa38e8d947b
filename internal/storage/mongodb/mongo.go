package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/storage"
)

var _ storage.Storage = (*Storage)(nil)

// Storage реализует storage.Storage поверх MongoDB.
type Storage struct {
	client     *mongo.Client
	users      *mongo.Collection
	categories *mongo.Collection
	questions  *mongo.Collection
	tests      *mongo.Collection
	results    *mongo.Collection
}

// NewStorage подключается к MongoDB по uri и создаёт индексы в базе database.
func NewStorage(ctx context.Context, uri, database string) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Storage{
		client:     client,
		users:      db.Collection("users"),
		categories: db.Collection("categories"),
		questions:  db.Collection("questions"),
		tests:      db.Collection("tests"),
		results:    db.Collection("testresults"),
	}

	if err = s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = s.tests.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tests index: %w", err)
	}

	_, err = s.results.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}, {Key: "completedAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create testresults index: %w", err)
	}

	return nil
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	oid, err := newObjectID(user.ID)
	if err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	doc := userDoc{
		ID:        oid,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
	}
	if _, err = s.users.InsertOne(ctx, doc); err != nil {
		return wrapErr(err)
	}

	user.ID = oid.Hex()
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userDoc
	if err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}

	return doc.model(), nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}

	return doc.model(), nil
}

func (s *Storage) CreateCategory(ctx context.Context, category *models.Category) error {
	oid, err := newObjectID(category.ID)
	if err != nil {
		return err
	}

	doc := categoryDoc{ID: oid, Name: category.Name, Description: category.Description}
	if _, err = s.categories.InsertOne(ctx, doc); err != nil {
		return wrapErr(err)
	}

	category.ID = oid.Hex()
	return nil
}

func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.categories.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []categoryDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, doc.model())
	}

	return categories, nil
}

func (s *Storage) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc categoryDoc
	if err = s.categories.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}

	category := doc.model()
	return &category, nil
}

func (s *Storage) CreateQuestion(ctx context.Context, question *models.Question) error {
	oid, err := newObjectID(question.ID)
	if err != nil {
		return err
	}

	doc := questionDoc{
		ID:            oid,
		Text:          question.Text,
		Options:       question.Options,
		CorrectOption: question.CorrectOption,
		Marks:         question.Marks,
	}
	if _, err = s.questions.InsertOne(ctx, doc); err != nil {
		return wrapErr(err)
	}

	question.ID = oid.Hex()
	return nil
}

// GetQuestions выбирает вопросы через $in и восстанавливает порядок ids.
func (s *Storage) GetQuestions(ctx context.Context, ids []string) ([]models.Question, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	cursor, err := s.questions.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}

	var docs []questionDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	byID := make(map[string]models.Question, len(docs))
	for _, doc := range docs {
		byID[doc.ID.Hex()] = doc.model()
	}

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}

	return questions, nil
}

func (s *Storage) CreateTest(ctx context.Context, test *models.Test) error {
	oid, err := newObjectID(test.ID)
	if err != nil {
		return err
	}
	category, err := primitive.ObjectIDFromHex(test.CategoryID)
	if err != nil {
		return fmt.Errorf("invalid category id %q: %w", test.CategoryID, err)
	}
	questions, err := objectIDs(test.QuestionIDs)
	if err != nil {
		return fmt.Errorf("invalid question id: %w", err)
	}

	doc := testDoc{
		ID:             oid,
		Title:          test.Title,
		Description:    test.Description,
		Category:       category,
		TotalQuestions: test.TotalQuestions,
		TotalMarks:     test.TotalMarks,
		PassingMarks:   test.PassingMarks,
		Duration:       test.Duration,
		Questions:      questions,
		Instructions:   test.Instructions,
	}
	if _, err = s.tests.InsertOne(ctx, doc); err != nil {
		return wrapErr(err)
	}

	test.ID = oid.Hex()
	return nil
}

func (s *Storage) GetTest(ctx context.Context, id string) (*models.Test, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc testDoc
	if err = s.tests.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}

	test := doc.model()
	return &test, nil
}

func (s *Storage) ListTestsByCategory(ctx context.Context, categoryID string) ([]models.Test, error) {
	oid, err := objectID(categoryID)
	if err != nil {
		return []models.Test{}, nil
	}

	cursor, err := s.tests.Find(ctx, bson.M{"category": oid}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []testDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tests := make([]models.Test, 0, len(docs))
	for _, doc := range docs {
		tests = append(tests, doc.model())
	}

	return tests, nil
}

func (s *Storage) CountTestsByCategory(ctx context.Context, categoryID string) (int, error) {
	oid, err := objectID(categoryID)
	if err != nil {
		return 0, nil
	}

	count, err := s.tests.CountDocuments(ctx, bson.M{"category": oid})
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

func (s *Storage) CreateResult(ctx context.Context, result *models.TestResult) error {
	oid, err := newObjectID(result.ID)
	if err != nil {
		return err
	}
	user, err := primitive.ObjectIDFromHex(result.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", result.UserID, err)
	}
	test, err := primitive.ObjectIDFromHex(result.TestID)
	if err != nil {
		return fmt.Errorf("invalid test id %q: %w", result.TestID, err)
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now().UTC()
	}

	answers := make([]answerDoc, 0, len(result.Answers))
	for _, a := range result.Answers {
		qid, err := primitive.ObjectIDFromHex(a.QuestionID)
		if err != nil {
			return fmt.Errorf("invalid question id %q: %w", a.QuestionID, err)
		}
		answers = append(answers, answerDoc{
			QuestionID:     qid,
			SelectedOption: a.SelectedOption,
			IsCorrect:      a.IsCorrect,
		})
	}

	doc := resultDoc{
		ID:             oid,
		User:           user,
		TestID:         test,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		WrongAnswers:   result.WrongAnswers,
		SkippedAnswers: result.SkippedAnswers,
		Answers:        answers,
		CompletedAt:    result.CompletedAt,
	}
	if _, err = s.results.InsertOne(ctx, doc); err != nil {
		return wrapErr(err)
	}

	result.ID = oid.Hex()
	return nil
}

func (s *Storage) GetLatestResult(ctx context.Context, testID, userID string) (*models.TestResult, error) {
	test, err := objectID(testID)
	if err != nil {
		return nil, err
	}
	user, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "completedAt", Value: -1}, {Key: "_id", Value: -1}})

	var doc resultDoc
	if err = s.results.FindOne(ctx, bson.M{"testId": test, "user": user}, opts).Decode(&doc); err != nil {
		return nil, wrapErr(err)
	}

	result := doc.model()
	return &result, nil
}

func (s *Storage) ListResultsByUser(ctx context.Context, userID string) ([]models.TestResult, error) {
	user, err := objectID(userID)
	if err != nil {
		return []models.TestResult{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.results.Find(ctx, bson.M{"user": user}, opts)
	if err != nil {
		return nil, err
	}

	var docs []resultDoc
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	results := make([]models.TestResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, doc.model())
	}

	return results, nil
}

func (s *Storage) Reset(ctx context.Context) error {
	for _, c := range []*mongo.Collection{s.results, s.tests, s.questions, s.categories, s.users} {
		if _, err := c.DeleteMany(ctx, bson.D{}); err != nil {
			return fmt.Errorf("failed to clear %s: %w", c.Name(), err)
		}
	}

	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func wrapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
	}
	return err
}
