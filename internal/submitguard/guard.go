// Package submitguard не даёт одному пользователю дважды отправить
// один и тот же тест в течение короткого окна.
package submitguard

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL — окно по умолчанию
const DefaultTTL = 10 * time.Second

var ErrAlreadySubmitted = errors.New("test already submitted")

// Guard выдаёт блокировку на пару (пользователь, тест).
type Guard interface {
	// Acquire возвращает ErrAlreadySubmitted, если блокировка уже занята.
	Acquire(ctx context.Context, userID, testID string) error
	// Release снимает блокировку раньше срока.
	Release(ctx context.Context, userID, testID string) error
}

func key(userID, testID string) string {
	return "quiz:submit:" + userID + ":" + testID
}
