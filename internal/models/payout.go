package models

import "time"

// Статусы выплаты на внешний счёт.
const (
	PayoutPending   = "pending"
	PayoutCompleted = "completed"
	PayoutFailed    = "failed"
)

// Payout — отложенная выплата: withdrawable-корзина уже списана,
// итог внешнего перевода ещё не известен. Успех оставляет списание в силе,
// неуспех возвращает сумму обратно. Разрешение идемпотентно: повторное
// подтверждение уже разрешённой выплаты ничего не меняет.
type Payout struct {
	Reference  string     `json:"reference"` // Уникальный ключ корреляции с внешним шлюзом
	UserUID    string     `json:"user_uid"`
	Amount     int64      `json:"amount"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// DummyWithdraw используется для приёма запроса на вывод средств из JSON.
type DummyWithdraw struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	RecipientCode string `json:"recipient_code" validate:"required"`
}
