package models

import "time"

// Типы транзакций. Суммы нормализованы к знаковым значениям:
// списания отрицательные, зачисления положительные.
const (
	TxnWithdrawal         = "withdrawal"
	TxnFundWallet         = "fund_wallet"
	TxnInvestment         = "investment"
	TxnCooperativePayment = "cooperative_payment"
	TxnFoodPayment        = "food_package_payment"
	TxnHouseholdPayment   = "household_bundle_payment"
	TxnHousingPayment     = "housing_payment"
	TxnRentPayment        = "rent_payment"
	TxnRentUpfront        = "rent_upfront_payment"
	TxnRentDisbursement   = "rent_disbursement" // Зарезервирован: политика без выплаты его не порождает
	TxnActivationFee      = "activation_fee"
	TxnManualWallet       = "manual_wallet_update"
	TxnManualWithdrawable = "manual_withdrawable_update"
	TxnManualInvested     = "manual_invested_update"
	TxnManualCooperative  = "manual_cooperative_update"
)

// Статусы транзакций.
const (
	TxnPending   = "pending"
	TxnCompleted = "completed"
	TxnFailed    = "failed"
)

// Transaction — неизменяемая запись журнала, привязанная к пользователю.
// Reference заполняется для внешних платежей и обеспечивает идемпотентность
// повторной доставки подтверждения; TransferCode — для выплат шлюза.
type Transaction struct {
	ID           string    `json:"id"`
	UserUID      string    `json:"user_uid"`
	Type         string    `json:"type"`
	Amount       int64     `json:"amount"` // Знаковая сумма в минорных единицах
	Status       string    `json:"status"`
	Description  string    `json:"description,omitempty"`
	Reference    string    `json:"reference,omitempty"`
	TransferCode string    `json:"transfer_code,omitempty"`
	PackageID    string    `json:"package_id,omitempty"`
	CreatedAt    time.Time `json:"date"`
}

// TransactionOwner дополняет транзакцию сведениями о владельце
// для отчётного слоя.
type TransactionOwner struct {
	UserUID   string `json:"user_uid"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TransactionFilter — параметры выборки журнала транзакций.
// Пустые поля означают отсутствие фильтра.
type TransactionFilter struct {
	Type     string
	Status   string
	UserUID  string
	DateFrom *time.Time
	DateTo   *time.Time
}

// TransactionPage — страница результатов отчётного слоя.
type TransactionPage struct {
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Total   int            `json:"total"`
	Results []*Transaction `json:"results"`
}
