// Package investment реализует регистрацию инвестиций в пакеты
// с фиксированной ставкой дохода.
package investment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/lib/money"
	"github.com/growvest/growvest/internal/models"
)

// Repository определяет методы хранилища для работы с инвестициями.
type Repository interface {
	// GetPackage возвращает запись каталога по ID.
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	// ApplyInvestment атомарно регистрирует инвестицию.
	ApplyInvestment(ctx context.Context, inv *models.Investment, txns []*models.Transaction) error
	// ListInvestments возвращает инвестиции пользователя.
	ListInvestments(ctx context.Context, userUID string) ([]*models.Investment, error)
}

// Service реализует бизнес-логику инвестиций.
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

// Register регистрирует инвестицию: списывает сумму из wallet в invested
// и зачисляет доход по ставке пакета в withdrawable тем же коммитом.
func (s *Service) Register(ctx context.Context, userUID, packageID string, req models.DummyInvestment) (*models.Investment, error) {
	pkg, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.Family != models.FamilyInvestment || !pkg.IsActive {
		return nil, fmt.Errorf("package %s is not an active investment: %w",
			packageID, domain.ErrNotFound)
	}
	if pkg.InterestRate <= 0 {
		return nil, fmt.Errorf("package %s has no interest rate: %w",
			packageID, domain.ErrInvalidInput)
	}

	now := time.Now()
	roi := money.Percent(req.Amount, int64(pkg.InterestRate))
	inv := &models.Investment{
		ID:             uuid.NewString(),
		UserUID:        userUID,
		PackageID:      packageID,
		PackageName:    pkg.Name,
		AmountInvested: req.Amount,
		InterestRate:   pkg.InterestRate,
		ROI:            roi,
		StartDate:      now,
		MaturityDate:   now.AddDate(0, pkg.DurationMonths, 0),
	}

	txns := []*models.Transaction{
		{
			ID:          uuid.NewString(),
			UserUID:     userUID,
			Type:        models.TxnInvestment,
			Amount:      -req.Amount,
			Status:      models.TxnCompleted,
			Description: fmt.Sprintf("Investment in %s", pkg.Name),
			PackageID:   packageID,
		},
		{
			ID:          uuid.NewString(),
			UserUID:     userUID,
			Type:        models.TxnInvestment,
			Amount:      roi,
			Status:      models.TxnCompleted,
			Description: fmt.Sprintf("ROI on %s at %d%%", pkg.Name, pkg.InterestRate),
			PackageID:   packageID,
		},
	}

	if err := s.repo.ApplyInvestment(ctx, inv, txns); err != nil {
		return nil, err
	}

	s.log.Info("registered investment",
		slog.String("id", inv.ID),
		slog.String("user_uid", userUID),
		slog.Int64("amount", req.Amount),
		slog.Int64("roi", roi))
	return inv, nil
}

// List возвращает инвестиции пользователя.
func (s *Service) List(ctx context.Context, userUID string) ([]*models.Investment, error) {
	return s.repo.ListInvestments(ctx, userUID)
}
