package models

import "time"

// Семейства пакетов каталога.
const (
	FamilyFood        = "food"
	FamilyHousehold   = "household"
	FamilyHousing     = "housing"
	FamilyRent        = "rent"
	FamilyCooperative = "cooperative"
	FamilyInvestment  = "investment"
)

// Частоты кооперативных взносов.
const (
	FrequencyWeekly   = "weekly"
	FrequencyBiWeekly = "bi-weekly"
	FrequencyMonthly  = "monthly"
)

// Package представляет запись каталога. Одна таблица хранит все семейства,
// поле Family — дискриминатор; колонки кооператива и инвестиций заполняются
// только для соответствующих семейств. Для движка пакет — неизменяемый вход:
// читается при покупке, редактируется только администратором.
type Package struct {
	ID          string `json:"id"`
	Family      string `json:"family"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"` // Цена рассрочных семейств в минорных единицах
	IsActive    bool   `json:"is_active"`

	// Поля кооперативного семейства.
	TargetAmount       int64  `json:"target_amount,omitempty"`       // Целевая сумма пула
	DurationMonths     int    `json:"duration_months,omitempty"`     // Длительность цикла в месяцах
	Frequency          string `json:"frequency,omitempty"`           // weekly, bi-weekly, monthly
	ContributionAmount int64  `json:"contribution_amount,omitempty"` // Размер одного взноса, выводится из цели
	CurrentAmount      int64  `json:"current_amount,omitempty"`      // Накоплено в пуле

	// Поля инвестиционного семейства.
	InterestRate int `json:"interest_rate,omitempty"` // Ставка дохода в процентах

	CreatedAt time.Time `json:"created_at"`
}

// CycleCount возвращает количество взносов кооперативного цикла
// для заданной частоты.
func (p *Package) CycleCount() int {
	switch p.Frequency {
	case FrequencyWeekly:
		return p.DurationMonths * 4
	case FrequencyBiWeekly:
		return p.DurationMonths * 2
	default:
		return p.DurationMonths
	}
}

// NextPaymentAfter возвращает дату следующего кооперативного платежа,
// отстоящую от from на один период частоты.
func (p *Package) NextPaymentAfter(from time.Time) time.Time {
	switch p.Frequency {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyBiWeekly:
		return from.AddDate(0, 0, 14)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// DummyPackage используется для приёма данных пакета из JSON-запроса
// администратора. Движок читает только перечисленные здесь поля.
type DummyPackage struct {
	Family         string `json:"family" validate:"required,oneof=food household housing rent cooperative investment"`
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description,omitempty"`
	Price          int64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	TargetAmount   int64  `json:"target_amount,omitempty" validate:"omitempty,gt=0"`
	DurationMonths int    `json:"duration_months,omitempty" validate:"omitempty,gt=0"`
	Frequency      string `json:"frequency,omitempty" validate:"omitempty,oneof=weekly bi-weekly monthly"`
	InterestRate   int    `json:"interest_rate,omitempty" validate:"omitempty,gt=0"`
}
