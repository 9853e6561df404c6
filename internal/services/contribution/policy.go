package contribution

import (
	"time"

	"github.com/growvest/growvest/internal/models"
)

// installmentPeriod — фиксированный интервал между платежами рассрочки.
const installmentPeriod = 30 * 24 * time.Hour

// Policy описывает правила одного рассрочного семейства: границы срока,
// множитель месяцев на единицу срока, авансовый процент и типы записей
// журнала. Семейства отличаются только параметрами, ядро у них общее.
type Policy struct {
	Family         string
	MinTerm        int
	MaxTerm        int
	MonthsPerTerm  int
	UpfrontPercent int64 // 0 — первый платёж задаёт пользователь
	TxnType        string
	UpfrontTxnType string
}

var policies = map[string]Policy{
	models.FamilyFood: {
		Family:        models.FamilyFood,
		MinTerm:       1,
		MaxTerm:       12,
		MonthsPerTerm: 1,
		TxnType:       models.TxnFoodPayment,
	},
	models.FamilyHousehold: {
		Family:        models.FamilyHousehold,
		MinTerm:       1,
		MaxTerm:       6,
		MonthsPerTerm: 1,
		TxnType:       models.TxnHouseholdPayment,
	},
	models.FamilyHousing: {
		Family:        models.FamilyHousing,
		MinTerm:       1,
		MaxTerm:       30,
		MonthsPerTerm: 12, // Срок задаётся в годах
		TxnType:       models.TxnHousingPayment,
	},
	models.FamilyRent: {
		Family:         models.FamilyRent,
		MinTerm:        2,
		MaxTerm:        12,
		MonthsPerTerm:  1,
		UpfrontPercent: 20,
		TxnType:        models.TxnRentPayment,
		UpfrontTxnType: models.TxnRentUpfront,
	},
}

// PolicyFor возвращает политику рассрочного семейства.
func PolicyFor(family string) (Policy, bool) {
	p, ok := policies[family]
	return p, ok
}

// ValidTerm проверяет срок против границ семейства.
func (p Policy) ValidTerm(term int) bool {
	return term >= p.MinTerm && term <= p.MaxTerm
}
