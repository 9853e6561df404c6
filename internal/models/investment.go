package models

import "time"

// Investment — одноразовая запись об инвестиции пользователя в пакет.
// Доход (ROI) начисляется на withdrawable-корзину сразу в момент
// инвестирования, а не по мере созревания.
type Investment struct {
	ID             string    `json:"id"`
	UserUID        string    `json:"user_uid"`
	PackageID      string    `json:"package_id"`
	PackageName    string    `json:"package_name"`
	AmountInvested int64     `json:"amount_invested"`
	InterestRate   int       `json:"interest_rate"`
	ROI            int64     `json:"roi"` // AmountInvested * InterestRate / 100
	StartDate      time.Time `json:"start_date"`
	MaturityDate   time.Time `json:"maturity_date"` // StartDate + duration месяцев
}

// DummyInvestment используется для приёма запроса инвестиции из JSON.
type DummyInvestment struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}
