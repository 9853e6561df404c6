// Package cooperative реализует циклы накопительных кооперативов:
// вступление, строго равные периодические взносы, выход и списки членств.
package cooperative

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// Repository определяет методы хранилища для работы с кооперативами.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetPackage возвращает запись каталога по ID.
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	// JoinCooperative вставляет запись членства.
	JoinCooperative(ctx context.Context, m *models.CooperativeMember) error
	// LeaveCooperative помечает членство неактивным.
	LeaveCooperative(ctx context.Context, packageID, userUID string) error
	// GetCooperativeMember возвращает членство пользователя в пакете.
	GetCooperativeMember(ctx context.Context, packageID, userUID string) (*models.CooperativeMember, error)
	// ListCooperativeMemberships возвращает членства пользователя.
	ListCooperativeMemberships(ctx context.Context, userUID string) ([]*models.CooperativeMember, error)
	// ApplyCooperativePayment атомарно проводит кооперативный взнос.
	ApplyCooperativePayment(ctx context.Context, m *models.CooperativeMember, amount int64, txn *models.Transaction) (int64, error)
}

// Service реализует бизнес-логику кооперативных циклов.
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

// Join вступает в кооперативный пакет. Требует заполненного профиля;
// размер взноса фиксируется на момент вступления как цель пула,
// делённая на количество взносов цикла.
func (s *Service) Join(ctx context.Context, userUID, packageID string) (*models.CooperativeMember, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if !user.ProfileCompleted {
		return nil, fmt.Errorf("user %s: %w", userUID, domain.ErrProfileIncomplete)
	}

	pkg, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.Family != models.FamilyCooperative || !pkg.IsActive {
		return nil, fmt.Errorf("package %s is not an active cooperative: %w",
			packageID, domain.ErrNotFound)
	}
	cycleCount := pkg.CycleCount()
	if cycleCount <= 0 || pkg.TargetAmount <= 0 {
		return nil, fmt.Errorf("package %s has no cycle parameters: %w",
			packageID, domain.ErrInvalidInput)
	}

	now := time.Now()
	m := &models.CooperativeMember{
		PackageID:          packageID,
		UserUID:            userUID,
		PackageName:        pkg.Name,
		ContributionAmount: pkg.TargetAmount / int64(cycleCount),
		Frequency:          pkg.Frequency,
		NextPaymentDate:    pkg.NextPaymentAfter(now),
		JoinedAt:           now,
		EndDate:            now.AddDate(0, pkg.DurationMonths, 0),
		IsActive:           true,
		Version:            1,
	}

	if err := s.repo.JoinCooperative(ctx, m); err != nil {
		return nil, err
	}

	s.log.Info("user joined cooperative",
		slog.String("package_id", packageID),
		slog.String("user_uid", userUID))
	return m, nil
}

// Pay проводит очередной кооперативный взнос. Сумма должна в точности
// равняться зафиксированному размеру взноса, досрочный платёж отклоняется.
func (s *Service) Pay(ctx context.Context, userUID, packageID string, amount int64) (*models.CooperativeReceipt, error) {
	m, err := s.repo.GetCooperativeMember(ctx, packageID, userUID)
	if err != nil {
		return nil, err
	}
	if !m.IsActive {
		return nil, fmt.Errorf("membership in package %s: %w", packageID, domain.ErrNotMember)
	}
	if amount != m.ContributionAmount {
		return nil, &domain.AmountMismatchError{Expected: m.ContributionAmount, Got: amount}
	}
	now := time.Now()
	if now.Before(m.NextPaymentDate) {
		return nil, fmt.Errorf("next payment is due %s: %w",
			m.NextPaymentDate.Format(time.DateOnly), domain.ErrNotDue)
	}

	m.PaymentsMade++
	m.AmountPaid += amount
	m.LastPaymentDate = &now
	// Цикл перезапускается от момента оплаты: один период частоты от now,
	// а не от прежней даты взноса.
	m.NextPaymentDate = nextAfter(now, m.Frequency)

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Type:        models.TxnCooperativePayment,
		Amount:      -amount,
		Status:      models.TxnCompleted,
		Description: fmt.Sprintf("Cooperative contribution %d to %s", m.PaymentsMade, m.PackageName),
		PackageID:   packageID,
	}

	poolAmount, err := s.repo.ApplyCooperativePayment(ctx, m, amount, txn)
	if err != nil {
		return nil, err
	}

	s.log.Info("applied cooperative payment",
		slog.String("package_id", packageID),
		slog.String("user_uid", userUID),
		slog.Int("payments_made", m.PaymentsMade))

	return &models.CooperativeReceipt{
		Transaction:     txn,
		NextPaymentDate: m.NextPaymentDate,
		PoolAmount:      poolAmount,
	}, nil
}

// Leave выходит из кооперативного пакета. Сделанные взносы остаются в пуле.
func (s *Service) Leave(ctx context.Context, userUID, packageID string) error {
	if err := s.repo.LeaveCooperative(ctx, packageID, userUID); err != nil {
		return err
	}
	s.log.Info("user left cooperative",
		slog.String("package_id", packageID),
		slog.String("user_uid", userUID))
	return nil
}

// Memberships возвращает все членства пользователя.
func (s *Service) Memberships(ctx context.Context, userUID string) ([]*models.CooperativeMember, error) {
	return s.repo.ListCooperativeMemberships(ctx, userUID)
}

// nextAfter двигает дату очередного взноса на один период частоты.
func nextAfter(from time.Time, frequency string) time.Time {
	switch frequency {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyBiWeekly:
		return from.AddDate(0, 0, 14)
	default:
		return from.AddDate(0, 1, 0)
	}
}
