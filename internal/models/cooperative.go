package models

import "time"

// CooperativeMember — авторитетная запись членства пользователя в
// кооперативном пакете. Представления «список членов пакета» и «членства
// пользователя» — проекции этой таблицы, отдельно они не пишутся.
type CooperativeMember struct {
	PackageID          string     `json:"package_id"`
	UserUID            string     `json:"user_uid"`
	PackageName        string     `json:"package_name"`
	ContributionAmount int64      `json:"contribution_amount"` // Зафиксирован на момент вступления
	Frequency          string     `json:"frequency"`
	NextPaymentDate    time.Time  `json:"next_payment_date"`
	LastPaymentDate    *time.Time `json:"last_payment_date,omitempty"`
	PaymentsMade       int        `json:"payments_made"`
	AmountPaid         int64      `json:"amount_paid"`
	IsActive           bool       `json:"is_active"`
	JoinedAt           time.Time  `json:"joined_at"`
	EndDate            time.Time  `json:"end_date"` // Расчётный конец цикла: JoinedAt + duration месяцев
	LeftAt             *time.Time `json:"left_at,omitempty"`
	Version            int        `json:"-"`
}

// CooperativeReceipt возвращается после успешного кооперативного платежа.
type CooperativeReceipt struct {
	Transaction     *Transaction `json:"transaction"`
	NextPaymentDate time.Time    `json:"next_payment_date"`
	PoolAmount      int64        `json:"pool_amount"` // Накоплено в пуле после платежа
}
