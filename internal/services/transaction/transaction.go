// Package transaction реализует отчётный слой журнала: фильтрованные
// выборки с пагинацией и чтение одной записи с контролем владельца.
package transaction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Repository определяет методы хранилища для чтения журнала.
type Repository interface {
	// ListTransactions возвращает страницу журнала по фильтру.
	ListTransactions(ctx context.Context, filter models.TransactionFilter, page, limit int) (*models.TransactionPage, error)
	// GetTransaction возвращает запись журнала с владельцем.
	GetTransaction(ctx context.Context, id string) (*models.Transaction, *models.TransactionOwner, error)
}

// Service реализует бизнес-логику отчётного слоя.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// List возвращает страницу журнала. Обычный пользователь видит только
// собственные записи, администратор — журнал целиком с любым фильтром.
func (s *Service) List(ctx context.Context, userUID, role string, filter models.TransactionFilter, page, limit int) (*models.TransactionPage, error) {
	if role != "admin" {
		filter.UserUID = userUID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.repo.ListTransactions(ctx, filter, page, limit)
}

// Get возвращает запись журнала. Обычный пользователь может читать только
// собственные записи.
func (s *Service) Get(ctx context.Context, userUID, role, id string) (*models.Transaction, *models.TransactionOwner, error) {
	txn, owner, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if role != "admin" && txn.UserUID != userUID {
		return nil, nil, fmt.Errorf("transaction %s belongs to another user: %w",
			id, domain.ErrForbidden)
	}
	return txn, owner, nil
}
