// Package money содержит арифметику денежных сумм в минорных единицах (кобо).
// Все суммы в системе хранятся как int64, чтобы свойство сохранения денег
// выполнялось точно, без дрейфа плавающей точки.
package money

// CeilDiv возвращает округлённое вверх частное total/parts.
// Используется для расчёта ежемесячного платежа: план никогда не
// недособирает, последний взнос может оказаться меньше расчётного.
func CeilDiv(total int64, parts int) int64 {
	if parts <= 0 {
		return total
	}
	p := int64(parts)
	return (total + p - 1) / p
}

// CeilPercent возвращает округлённые вверх percent процентов от amount.
func CeilPercent(amount int64, percent int64) int64 {
	return (amount*percent + 99) / 100
}

// Percent возвращает percent процентов от amount с усечением вниз.
// Применяется для расчёта дохода по инвестиции.
func Percent(amount int64, percent int64) int64 {
	return amount * percent / 100
}
