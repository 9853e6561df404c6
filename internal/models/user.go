// Package models содержит доменные структуры движка рассрочек:
// пользователя с его балансовыми корзинами, пакеты каталога, взносы,
// кооперативные членства, инвестиции и журнал транзакций.
// Вспомогательные Dummy-типы служат для приёма данных из JSON-запросов
// до валидации и конвертации в доменные структуры.
package models

import "time"

// Статусы KYC-проверки пользователя.
const (
	KYCNotSubmitted = "not_submitted"
	KYCPending      = "pending"
	KYCVerified     = "verified"
	KYCRejected     = "rejected"
)

// User представляет зарегистрированного пользователя системы.
// Балансовые корзины хранятся отдельно (Balances) и изменяются только
// внутри атомарных операций хранилища.
type User struct {
	UID                  string     // Уникальный идентификатор пользователя
	Email                string     // Электронная почта (уникальная)
	Username             string     // Имя пользователя (уникальное)
	PasswordHash         string     // Хэш пароля
	Role                 string     // Роль: admin или user
	FirstName            string     // Имя
	LastName             string     // Фамилия
	PhoneNumber          string     // Телефон
	ProfileCompleted     bool       // Заполнен ли профиль (условие вступления в кооператив)
	IsActivated          bool       // Активирован ли аккаунт
	ActivationDate       *time.Time // Дата активации
	ActivationExpiration *time.Time // Срок действия активации (1 год)
	KYCStatus            string     // Статус KYC: not_submitted, pending, verified, rejected
	CreatedAt            time.Time
}

// Balances — четыре денежные корзины пользователя в минорных единицах.
// Ни одна корзина никогда не уходит в минус: списание, нарушающее это,
// отклоняется до изменения данных.
type Balances struct {
	Wallet       int64 `json:"wallet"`       // Кошелёк: пополняется извне, из него идут все покупки
	Withdrawable int64 `json:"withdrawable"` // Доступно к выводу
	Invested     int64 `json:"invested"`     // Вложено в инвестиционные пакеты
	Cooperative  int64 `json:"cooperative"`  // Кооперативная корзина
}

// KYCSubmission используется для приёма анкеты KYC из JSON-запроса.
type KYCSubmission struct {
	FullName        string   `json:"full_name" validate:"required"`
	NIN             string   `json:"nin" validate:"required"`
	NINImage        string   `json:"nin_image,omitempty"`
	WorkIDImage     string   `json:"work_id_image,omitempty"`
	UtilityBill     string   `json:"utility_bill_image,omitempty"`
	SalaryRange     string   `json:"salary_range,omitempty"`
	Position        string   `json:"position,omitempty"`
	EmployerName    string   `json:"employer_name,omitempty"`
	EmployerAddress string   `json:"employer_address,omitempty"`
	HomeAddress     string   `json:"home_address,omitempty"`
	OfficeAddress   string   `json:"office_address,omitempty"`
	ExtraDocuments  []string `json:"additional_documents,omitempty"`
}
