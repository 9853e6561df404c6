// Package challenge выдаёт и проверяет одноразовые коды подтверждения
// для чувствительных операций (вывод средств).
package challenge

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/growvest/growvest/internal/domain"
)

const (
	codeLength = 6
	ttl        = 10 * time.Minute
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store хранит выданные коды в памяти процесса. Код одноразовый:
// успешная проверка его удаляет.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Request генерирует новый код для пользователя, затирая предыдущий.
func (s *Store) Request(userUID string) (string, error) {
	const op = "challenge.Request"
	code := ""
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}
		code += n.String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userUID] = entry{code: code, expiresAt: s.now().Add(ttl)}
	return code, nil
}

// Verify проверяет код пользователя. Неверный или просроченный код
// возвращает domain.ErrChallengeExpired.
func (s *Store) Verify(userUID, code string) error {
	const op = "challenge.Verify"
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[userUID]
	if !ok || e.code != code || s.now().After(e.expiresAt) {
		return fmt.Errorf("%s: %w", op, domain.ErrChallengeExpired)
	}
	delete(s.entries, userUID)
	return nil
}
