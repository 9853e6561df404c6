package models

import "time"

// Статусы записей в истории платежей и сводках членства.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled" // Зарезервирован: ни одна операция движка его не выставляет
)

// Contribution — центральная сущность движка: один экземпляр покупки
// пакета в рассрочку. Инвариант: RemainingAmount = TotalAmount - PaidAmount
// после каждого изменения; IsCompleted эквивалентно RemainingAmount <= 0.
// Завершённый взнос неизменяем и новых платежей не принимает.
type Contribution struct {
	ID              string     `json:"id"`
	Family          string     `json:"family"`
	UserUID         string     `json:"user_uid"`
	PackageID       string     `json:"package_id"`
	Term            int        `json:"term"`             // Срок, как его задал пользователь (месяцы или годы)
	TotalAmount     int64      `json:"total_amount"`     // Полная цена пакета
	PaidAmount      int64      `json:"paid_amount"`      // Сумма всех платежей; может превысить TotalAmount при переплате
	RemainingAmount int64      `json:"remaining_amount"` // Производное: TotalAmount - PaidAmount
	MonthlyPayment  int64      `json:"monthly_payment"`  // ceil(TotalAmount / TotalMonths)
	TotalMonths     int        `json:"total_months"`
	CurrentMonth    int        `json:"current_month"` // Счётчик взносов, начинается с 1
	NextPaymentDate time.Time  `json:"next_payment_date"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty"` // Ставится ровно один раз при завершении
	IsActive        bool       `json:"is_active"`
	IsCompleted     bool       `json:"is_completed"`
	Version         int        `json:"-"` // Оптимистическая блокировка конкурентных платежей
}

// PaymentRecord — одна запись истории платежей взноса.
type PaymentRecord struct {
	ID             string    `json:"id"`
	ContributionID string    `json:"contribution_id"`
	Amount         int64     `json:"amount"`
	Method         string    `json:"method"` // Всегда wallet в текущем ядре
	Status         string    `json:"status"`
	PaidAt         time.Time `json:"paid_at"`
}

// MembershipSummary — денормализованная строка списка взносов пользователя.
// Это read-only проекция авторитетной записи Contribution, она строится
// запросом и нигде не хранится отдельно.
type MembershipSummary struct {
	ContributionID string    `json:"contribution_id"`
	Family         string    `json:"family"`
	PackageName    string    `json:"package_name"`
	StartDate      time.Time `json:"start_date"`
	Status         string    `json:"status"` // active, completed, cancelled
}

// DummyPurchase используется для приёма запроса покупки из JSON.
// Для аренды FirstPaymentAmount игнорируется: первый платёж считается
// на сервере как 20% цены.
type DummyPurchase struct {
	Term               int   `json:"term" validate:"required,gt=0"`
	FirstPaymentAmount int64 `json:"first_payment_amount,omitempty" validate:"omitempty,gt=0"`
}

// DummyPayment используется для приёма очередного платежа из JSON.
type DummyPayment struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

// PurchaseResult возвращается операцией покупки: созданный взнос
// и кошелёк после списания.
type PurchaseResult struct {
	Contribution  *Contribution `json:"contribution"`
	WalletBalance int64         `json:"wallet_balance"`
}
