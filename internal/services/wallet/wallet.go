// Package wallet реализует денежную кромку системы: пополнение wallet
// подтверждёнными платежами шлюза, вывод withdrawable и чтение корзин.
package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/gateway"
	"github.com/growvest/growvest/internal/models"
)

// Repository определяет методы хранилища для работы с корзинами и выплатами.
type Repository interface {
	// GetBalances возвращает корзины баланса пользователя.
	GetBalances(ctx context.Context, userUID string) (*models.Balances, error)
	// CreditWalletIdempotent зачисляет подтверждённый платёж один раз.
	CreditWalletIdempotent(ctx context.Context, txn *models.Transaction) (bool, error)
	// CreatePendingPayout резервирует вывод средств.
	CreatePendingPayout(ctx context.Context, p *models.Payout, txn *models.Transaction) error
	// ResolvePayout разрешает выплату по итогу внешнего перевода.
	ResolvePayout(ctx context.Context, reference string, success bool) error
}

// Gateway определяет операции внешнего платёжного шлюза.
type Gateway interface {
	// VerifyCharge запрашивает состояние платежа по reference.
	VerifyCharge(ctx context.Context, reference string) (*gateway.ChargeData, error)
	// InitiateTransfer отправляет запрос на выплату.
	InitiateTransfer(ctx context.Context, req gateway.InitiateTransferRequest) (*gateway.TransferData, error)
	// ValidSignature сверяет подпись тела вебхука.
	ValidSignature(body []byte, signature string) bool
}

// Challenger проверяет одноразовые коды подтверждения операций.
type Challenger interface {
	Verify(userUID, code string) error
}

// Service реализует бизнес-логику кошелька.
type Service struct {
	repo      Repository
	gate      Gateway
	challenge Challenger
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, gate Gateway, challenge Challenger, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gate:      gate,
		challenge: challenge,
		log:       log,
	}
}

// Balances возвращает корзины баланса пользователя.
func (s *Service) Balances(ctx context.Context, userUID string) (*models.Balances, error) {
	return s.repo.GetBalances(ctx, userUID)
}

// Fund зачисляет платёж в wallet после проверки его состояния у шлюза.
// Сумма берётся из ответа шлюза, клиентская сумма не принимается.
// Повторное подтверждение того же reference ничего не зачисляет.
func (s *Service) Fund(ctx context.Context, userUID, reference string) (*models.Balances, error) {
	charge, err := s.gate.VerifyCharge(ctx, reference)
	if err != nil {
		return nil, &domain.ExternalError{Op: "verify charge", Err: err}
	}
	if charge.Status != "success" {
		return nil, fmt.Errorf("charge %s is %s: %w", reference, charge.Status, domain.ErrInvalidInput)
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Type:        models.TxnFundWallet,
		Amount:      charge.Amount,
		Status:      models.TxnCompleted,
		Description: "Wallet funding",
		Reference:   reference,
	}
	credited, err := s.repo.CreditWalletIdempotent(ctx, txn)
	if err != nil {
		return nil, err
	}
	if !credited {
		s.log.Warn("duplicate funding confirmation skipped",
			slog.String("reference", reference))
	} else {
		s.log.Info("credited wallet",
			slog.String("user_uid", userUID),
			slog.Int64("amount", charge.Amount))
	}
	return s.repo.GetBalances(ctx, userUID)
}

// Withdraw выводит сумму из withdrawable на внешний счёт. Списание
// происходит до обращения к шлюзу; отказ шлюза немедленно возвращает
// средства, итог принятого перевода разрешается вебхуком.
func (s *Service) Withdraw(ctx context.Context, userUID, code string, req models.DummyWithdraw) (*models.Payout, error) {
	if err := s.challenge.Verify(userUID, code); err != nil {
		return nil, err
	}

	reference := uuid.NewString()
	payout := &models.Payout{
		Reference: reference,
		UserUID:   userUID,
		Amount:    req.Amount,
		Status:    models.PayoutPending,
	}
	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Type:        models.TxnWithdrawal,
		Amount:      -req.Amount,
		Status:      models.TxnPending,
		Description: "Withdrawal to external account",
		Reference:   reference,
	}
	if err := s.repo.CreatePendingPayout(ctx, payout, txn); err != nil {
		return nil, err
	}

	transfer, err := s.gate.InitiateTransfer(ctx, gateway.InitiateTransferRequest{
		Source:    "balance",
		Amount:    req.Amount,
		Recipient: req.RecipientCode,
		Reference: reference,
	})
	if err != nil {
		if resolveErr := s.repo.ResolvePayout(ctx, reference, false); resolveErr != nil {
			s.log.Error("failed to refund rejected payout",
				slog.String("reference", reference), slog.Any("err", resolveErr))
		}
		return nil, &domain.ExternalError{Op: "initiate transfer", Err: err}
	}

	if transfer.Status == "success" {
		if err := s.repo.ResolvePayout(ctx, reference, true); err != nil {
			return nil, err
		}
		payout.Status = models.PayoutCompleted
	}

	s.log.Info("initiated withdrawal",
		slog.String("user_uid", userUID),
		slog.String("reference", reference),
		slog.Int64("amount", req.Amount))
	return payout, nil
}

// HandleWebhook принимает событие шлюза и разрешает соответствующую выплату.
// Неизвестные события игнорируются.
func (s *Service) HandleWebhook(ctx context.Context, event gateway.WebhookEvent) error {
	switch event.Event {
	case "transfer.success":
		return s.repo.ResolvePayout(ctx, event.Data.Reference, true)
	case "transfer.failed", "transfer.reversed":
		return s.repo.ResolvePayout(ctx, event.Data.Reference, false)
	default:
		s.log.Info("ignored webhook event", slog.String("event", event.Event))
		return nil
	}
}

// ValidSignature сверяет подпись тела вебхука.
func (s *Service) ValidSignature(body []byte, signature string) bool {
	return s.gate.ValidSignature(body, signature)
}
