// Package domain содержит типизированные ошибки бизнес-уровня.
// Обработчики HTTP транслируют их в статусы ответов, сервисы и хранилище
// возвращают их вместо произвольных строк, чтобы вызывающий код мог
// проверять ошибки через errors.Is / errors.As.
package domain

import (
	"errors"
	"fmt"
)

// Сентинельные ошибки бизнес-уровня.
var (
	// ErrNotFound — пакет, пользователь, взнос или транзакция не найдены.
	ErrNotFound = errors.New("not found")
	// ErrForbidden — запись существует, но принадлежит другому пользователю.
	ErrForbidden = errors.New("access denied")
	// ErrInvalidInput — срок вне допустимых границ, неположительная сумма и т.п.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientFunds — базовая ошибка проверки баланса, см. InsufficientFundsError.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrAlreadyCompleted — попытка платежа по завершённому взносу.
	ErrAlreadyCompleted = errors.New("contribution already completed")
	// ErrConflict — нарушение версии записи при конкурентном изменении, можно повторить.
	ErrConflict = errors.New("concurrent modification conflict")
	// ErrAlreadyMember — повторное вступление в кооперативный пакет.
	ErrAlreadyMember = errors.New("already a member of this package")
	// ErrNotMember — операция требует активного членства.
	ErrNotMember = errors.New("not an active member of this package")
	// ErrNotDue — кооперативный платёж до наступления срока.
	ErrNotDue = errors.New("next payment is not due yet")
	// ErrAmountMismatch — базовая ошибка точной суммы, см. AmountMismatchError.
	ErrAmountMismatch = errors.New("payment amount mismatch")
	// ErrProfileIncomplete — профиль пользователя не заполнен.
	ErrProfileIncomplete = errors.New("profile is not completed")
	// ErrNotActivated — аккаунт не активирован или активация истекла.
	ErrNotActivated = errors.New("account is not activated")
	// ErrAlreadyActivated — повторная активация аккаунта.
	ErrAlreadyActivated = errors.New("account is already activated")
	// ErrChallengeExpired — код подтверждения истёк.
	ErrChallengeExpired = errors.New("challenge code expired")
)

// InsufficientFundsError сообщает, сколько требовалось и сколько доступно.
// Ответ пользователю обязан включать обе суммы.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %d, available %d", e.Required, e.Available)
}

// Is связывает структурную ошибку с сентинелем ErrInsufficientFunds.
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// AmountMismatchError возвращается кооперативным движком: платёж принимается
// только ровно на сумму взноса, без недоплаты и переплаты.
type AmountMismatchError struct {
	Expected int64
	Got      int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("payment amount must be exactly %d, got %d", e.Expected, e.Got)
}

// Is связывает структурную ошибку с сентинелем ErrAmountMismatch.
func (e *AmountMismatchError) Is(target error) bool {
	return target == ErrAmountMismatch
}

// ExternalError оборачивает сбой внешнего платёжного шлюза,
// не пропуская наружу сырой ответ провайдера.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("external dependency failed: %s: %v", e.Op, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }
