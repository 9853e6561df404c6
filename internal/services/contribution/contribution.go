// Package contribution реализует ядро рассрочных покупок: создание взноса,
// очередные платежи, списки и историю. Семейства пакетов параметризуются
// политиками, сами операции общие.
package contribution

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

// Repository определяет методы хранилища для работы со взносами.
type Repository interface {
	// GetPackage возвращает запись каталога по ID.
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	// ApplyPurchase атомарно создаёт взнос и списывает первый платёж.
	ApplyPurchase(ctx context.Context, c *models.Contribution, txns []*models.Transaction) (int64, error)
	// GetContribution возвращает взнос по ID.
	GetContribution(ctx context.Context, id string) (*models.Contribution, error)
	// ApplyPayment атомарно проводит очередной платёж.
	ApplyPayment(ctx context.Context, c *models.Contribution, amount int64, txn *models.Transaction) (int64, error)
	// ListContributions возвращает взносы пользователя одного семейства.
	ListContributions(ctx context.Context, userUID, family string) ([]*models.Contribution, error)
	// ListMemberships строит сводку взносов пользователя по всем семействам.
	ListMemberships(ctx context.Context, userUID string) ([]*models.MembershipSummary, error)
	// ListPaymentHistory возвращает историю платежей взноса.
	ListPaymentHistory(ctx context.Context, contributionID string) ([]*models.PaymentRecord, error)
}

// Service реализует бизнес-логику рассрочных покупок.
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

// Purchase создаёт взнос по пакету рассрочного семейства и списывает
// первый платёж из wallet. Для аренды первый платёж всегда считается
// на сервере как авансовый процент цены, клиентская сумма игнорируется.
func (s *Service) Purchase(ctx context.Context, userUID, family, packageID string, req models.DummyPurchase) (*models.PurchaseResult, error) {
	policy, ok := PolicyFor(family)
	if !ok {
		return nil, fmt.Errorf("unknown package family %q: %w", family, domain.ErrInvalidInput)
	}
	if !policy.ValidTerm(req.Term) {
		return nil, fmt.Errorf("term %d is out of range [%d, %d]: %w",
			req.Term, policy.MinTerm, policy.MaxTerm, domain.ErrInvalidInput)
	}

	pkg, err := s.repo.GetPackage(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.Family != family || !pkg.IsActive {
		return nil, fmt.Errorf("package %s is not available for family %s: %w",
			packageID, family, domain.ErrNotFound)
	}
	if pkg.Price <= 0 {
		return nil, fmt.Errorf("package %s has no price: %w", packageID, domain.ErrInvalidInput)
	}

	totalMonths := req.Term * policy.MonthsPerTerm
	monthlyPayment := money.CeilDiv(pkg.Price, totalMonths)

	firstPayment := monthlyPayment
	txnType := policy.TxnType
	if policy.UpfrontPercent > 0 {
		firstPayment = money.CeilPercent(pkg.Price, policy.UpfrontPercent)
		txnType = policy.UpfrontTxnType
	} else if req.FirstPaymentAmount > 0 {
		firstPayment = req.FirstPaymentAmount
	}

	now := time.Now()
	c := &models.Contribution{
		ID:              uuid.NewString(),
		Family:          family,
		UserUID:         userUID,
		PackageID:       packageID,
		Term:            req.Term,
		TotalAmount:     pkg.Price,
		PaidAmount:      firstPayment,
		RemainingAmount: pkg.Price - firstPayment,
		MonthlyPayment:  monthlyPayment,
		TotalMonths:     totalMonths,
		CurrentMonth:    1,
		NextPaymentDate: now.Add(installmentPeriod),
		StartDate:       now,
		IsActive:        true,
	}
	if c.RemainingAmount <= 0 {
		c.IsCompleted = true
		c.IsActive = false
		c.EndDate = &now
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Type:        txnType,
		Amount:      -firstPayment,
		Status:      models.TxnCompleted,
		Description: fmt.Sprintf("Purchase of %s (%s)", pkg.Name, family),
		PackageID:   packageID,
	}

	wallet, err := s.repo.ApplyPurchase(ctx, c, []*models.Transaction{txn})
	if err != nil {
		return nil, err
	}

	s.log.Info("created contribution",
		slog.String("id", c.ID),
		slog.String("family", family),
		slog.String("user_uid", userUID))

	return &models.PurchaseResult{Contribution: c, WalletBalance: wallet}, nil
}

// Pay проводит очередной платёж по взносу. Переплата принимается и не
// возвращается; взнос закрывается, когда остаток исчерпан.
func (s *Service) Pay(ctx context.Context, userUID, contributionID string, req models.DummyPayment) (*models.PurchaseResult, error) {
	c, err := s.repo.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if c.UserUID != userUID {
		return nil, fmt.Errorf("contribution %s belongs to another user: %w",
			contributionID, domain.ErrForbidden)
	}
	if c.IsCompleted || !c.IsActive {
		return nil, fmt.Errorf("contribution %s: %w", contributionID, domain.ErrAlreadyCompleted)
	}

	policy, ok := PolicyFor(c.Family)
	if !ok {
		return nil, fmt.Errorf("unknown package family %q: %w", c.Family, domain.ErrInvalidInput)
	}

	// Срок следующего платежа отсчитывается от момента оплаты, а не от
	// прежней даты: просроченный взнос не тянет весь график в прошлое.
	now := time.Now()
	c.PaidAmount += req.Amount
	c.RemainingAmount = c.TotalAmount - c.PaidAmount
	c.CurrentMonth++
	c.NextPaymentDate = now.Add(installmentPeriod)
	if c.RemainingAmount <= 0 {
		c.IsCompleted = true
		c.IsActive = false
		c.EndDate = &now
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Type:        policy.TxnType,
		Amount:      -req.Amount,
		Status:      models.TxnCompleted,
		Description: fmt.Sprintf("Installment %d of %d", c.CurrentMonth, c.TotalMonths),
		PackageID:   c.PackageID,
	}

	wallet, err := s.repo.ApplyPayment(ctx, c, req.Amount, txn)
	if err != nil {
		return nil, err
	}

	s.log.Info("applied installment payment",
		slog.String("contribution_id", c.ID),
		slog.Int64("amount", req.Amount),
		slog.Bool("completed", c.IsCompleted))

	return &models.PurchaseResult{Contribution: c, WalletBalance: wallet}, nil
}

// List возвращает взносы пользователя внутри одного семейства.
func (s *Service) List(ctx context.Context, userUID, family string) ([]*models.Contribution, error) {
	if _, ok := PolicyFor(family); !ok {
		return nil, fmt.Errorf("unknown package family %q: %w", family, domain.ErrInvalidInput)
	}
	return s.repo.ListContributions(ctx, userUID, family)
}

// Get возвращает взнос пользователя по ID.
func (s *Service) Get(ctx context.Context, userUID, contributionID string) (*models.Contribution, error) {
	c, err := s.repo.GetContribution(ctx, contributionID)
	if err != nil {
		return nil, err
	}
	if c.UserUID != userUID {
		return nil, fmt.Errorf("contribution %s belongs to another user: %w",
			contributionID, domain.ErrForbidden)
	}
	return c, nil
}

// Memberships строит сводку всех взносов пользователя.
func (s *Service) Memberships(ctx context.Context, userUID string) ([]*models.MembershipSummary, error) {
	return s.repo.ListMemberships(ctx, userUID)
}

// History возвращает историю платежей взноса пользователя.
func (s *Service) History(ctx context.Context, userUID, contributionID string) ([]*models.PaymentRecord, error) {
	if _, err := s.Get(ctx, userUID, contributionID); err != nil {
		return nil, err
	}
	return s.repo.ListPaymentHistory(ctx, contributionID)
}
