package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/growvest/growvest/internal/domain"
)

func TestStore_RequestAndVerify(t *testing.T) {
	store := NewStore()

	code, err := store.Request("user-1")
	assert.NoError(t, err)
	assert.Len(t, code, 6)

	assert.NoError(t, store.Verify("user-1", code))

	// Код одноразовый
	assert.ErrorIs(t, store.Verify("user-1", code), domain.ErrChallengeExpired)
}

func TestStore_WrongCode(t *testing.T) {
	store := NewStore()

	code, err := store.Request("user-1")
	assert.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}
	assert.ErrorIs(t, store.Verify("user-1", wrong), domain.ErrChallengeExpired)

	// Неверная попытка не сжигает код
	assert.NoError(t, store.Verify("user-1", code))
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore()

	current := time.Now()
	store.now = func() time.Time { return current }

	code, err := store.Request("user-1")
	assert.NoError(t, err)

	current = current.Add(11 * time.Minute)
	assert.ErrorIs(t, store.Verify("user-1", code), domain.ErrChallengeExpired)
}

func TestStore_NewRequestReplacesCode(t *testing.T) {
	store := NewStore()

	first, err := store.Request("user-1")
	assert.NoError(t, err)
	second, err := store.Request("user-1")
	assert.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, store.Verify("user-1", first), domain.ErrChallengeExpired)
	}
	assert.NoError(t, store.Verify("user-1", second))
}

func TestStore_UnknownUser(t *testing.T) {
	store := NewStore()
	assert.ErrorIs(t, store.Verify("ghost", "123456"), domain.ErrChallengeExpired)
}
