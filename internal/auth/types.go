package auth

import (
	"errors"
	"time"

	"github.com/letsssgooo/quizServer/internal/domain/models"
)

// Ошибки авторизации
var (
	ErrValidation         = errors.New("validation error")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

// Время жизни токена по умолчанию
const DefaultTokenTTL = 7 * 24 * time.Hour

// RegisterRequest — тело запроса регистрации
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// LoginRequest — тело запроса входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// PublicUser — публичные поля пользователя
type PublicUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session — выданный токен и пользователь, которому он принадлежит
type Session struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// NewPublicUser отбрасывает хеш пароля и служебные поля.
func NewPublicUser(user *models.User) PublicUser {
	return PublicUser{ID: user.ID, Name: user.Name, Email: user.Email}
}
