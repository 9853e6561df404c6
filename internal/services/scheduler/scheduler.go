// Package scheduler периодически ищет наступающие платежи по взносам
// и кооперативным циклам и публикует напоминания в брокер.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/growvest/growvest/internal/lib/rabbitmq"
	"github.com/growvest/growvest/internal/lib/sl"
	"github.com/growvest/growvest/internal/models"
)

// lookahead — за сколько до срока платежа уходит напоминание.
const lookahead = 24 * time.Hour

// Repository определяет выборки наступающих платежей.
type Repository interface {
	// FindDueContributions возвращает взносы с платежом не позже deadline.
	FindDueContributions(ctx context.Context, deadline time.Time) ([]*models.Contribution, error)
	// FindDueCooperativeMembers возвращает членства со взносом не позже deadline.
	FindDueCooperativeMembers(ctx context.Context, deadline time.Time) ([]*models.CooperativeMember, error)
}

// Reminder — сообщение напоминания о платеже.
type Reminder struct {
	Kind            string    `json:"kind"` // contribution или cooperative
	UserUID         string    `json:"user_uid"`
	SubjectID       string    `json:"subject_id"` // ID взноса или пакета
	Amount          int64     `json:"amount"`
	NextPaymentDate time.Time `json:"next_payment_date"`
}

// Service публикует напоминания о наступающих платежах.
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

// Run раз в interval публикует напоминания по платежам, наступающим
// в ближайшие сутки. Блокирует до отмены контекста.
func (s *Service) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishDue(ctx, channel)
		}
	}
}

func (s *Service) publishDue(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting due payment scan")
	deadline := time.Now().Add(lookahead)

	contributions, err := s.repo.FindDueContributions(ctx, deadline)
	if err != nil {
		s.log.Error("failed to find due contributions", sl.Err(err))
	}
	for _, c := range contributions {
		reminder := Reminder{
			Kind:            "contribution",
			UserUID:         c.UserUID,
			SubjectID:       c.ID,
			Amount:          c.MonthlyPayment,
			NextPaymentDate: c.NextPaymentDate,
		}
		if err := rabbitmq.PublishMessage(channel, "payments", "due", reminder); err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}

	members, err := s.repo.FindDueCooperativeMembers(ctx, deadline)
	if err != nil {
		s.log.Error("failed to find due cooperative members", sl.Err(err))
	}
	for _, m := range members {
		reminder := Reminder{
			Kind:            "cooperative",
			UserUID:         m.UserUID,
			SubjectID:       m.PackageID,
			Amount:          m.ContributionAmount,
			NextPaymentDate: m.NextPaymentDate,
		}
		if err := rabbitmq.PublishMessage(channel, "payments", "due", reminder); err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}
