package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/letsssgooo/quizServer/internal/domain/models"
	"github.com/letsssgooo/quizServer/internal/storage"
)

// Service реализует регистрацию, вход и проверку токенов.
type Service struct {
	users    storage.UserRepo
	tokens   *TokenManager
	hashCost int
}

// NewService создаёт сервис авторизации.
// hashCost вне допустимого диапазона bcrypt заменяется на bcrypt.DefaultCost.
func NewService(users storage.UserRepo, tokens *TokenManager, hashCost int) *Service {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		hashCost: hashCost,
	}
}

// Register создаёт нового пользователя и выдаёт ему токен.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err = s.users.CreateUser(ctx, user); err != nil {
		// гонка двух регистраций с одним email
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID)

	return s.newSession(user)
}

// Login проверяет email и пароль и выдаёт токен.
// Неизвестный email и неверный пароль дают одну и ту же ошибку ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.Email = NormalizeEmail(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Authenticate проверяет токен и возвращает его владельца.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	return user, nil
}

func (s *Service) newSession(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, User: NewPublicUser(user)}, nil
}
