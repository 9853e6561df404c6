package wallet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/gateway"
	"github.com/growvest/growvest/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetBalances(ctx context.Context, userUID string) (*models.Balances, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balances), args.Error(1)
}
func (m *RepoMock) CreditWalletIdempotent(ctx context.Context, txn *models.Transaction) (bool, error) {
	args := m.Called(ctx, txn)
	return args.Bool(0), args.Error(1)
}
func (m *RepoMock) CreatePendingPayout(ctx context.Context, p *models.Payout, txn *models.Transaction) error {
	return m.Called(ctx, p, txn).Error(0)
}
func (m *RepoMock) ResolvePayout(ctx context.Context, reference string, success bool) error {
	return m.Called(ctx, reference, success).Error(0)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) VerifyCharge(ctx context.Context, reference string) (*gateway.ChargeData, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ChargeData), args.Error(1)
}
func (m *GatewayMock) InitiateTransfer(ctx context.Context, req gateway.InitiateTransferRequest) (*gateway.TransferData, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.TransferData), args.Error(1)
}
func (m *GatewayMock) ValidSignature(body []byte, signature string) bool {
	return m.Called(body, signature).Bool(0)
}

type ChallengerMock struct{ mock.Mock }

func (m *ChallengerMock) Verify(userUID, code string) error {
	return m.Called(userUID, code).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestWalletService_Fund(t *testing.T) {
	balances := &models.Balances{Wallet: 150000}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, g *GatewayMock)
		wantErr    bool
		checkErr   func(t *testing.T, err error)
	}{
		{
			name: "verified charge credits gateway amount",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				g.On("VerifyCharge", mock.Anything, "ref-1").
					Return(&gateway.ChargeData{Reference: "ref-1", Amount: 50000, Status: "success"}, nil).Once()
				r.On("CreditWalletIdempotent", mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
					return txn.Amount == 50000 &&
						txn.Type == models.TxnFundWallet &&
						txn.Reference == "ref-1"
				})).Return(true, nil).Once()
				r.On("GetBalances", mock.Anything, "user-1").Return(balances, nil).Once()
			},
		},
		{
			name: "duplicate confirmation skips the credit but returns balances",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				g.On("VerifyCharge", mock.Anything, "ref-1").
					Return(&gateway.ChargeData{Reference: "ref-1", Amount: 50000, Status: "success"}, nil).Once()
				r.On("CreditWalletIdempotent", mock.Anything, mock.Anything).Return(false, nil).Once()
				r.On("GetBalances", mock.Anything, "user-1").Return(balances, nil).Once()
			},
		},
		{
			name: "unsuccessful charge is rejected",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				g.On("VerifyCharge", mock.Anything, "ref-1").
					Return(&gateway.ChargeData{Reference: "ref-1", Amount: 50000, Status: "abandoned"}, nil).Once()
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			},
		},
		{
			name: "gateway failure wraps into external error",
			setupMocks: func(r *RepoMock, g *GatewayMock) {
				g.On("VerifyCharge", mock.Anything, "ref-1").
					Return(nil, errors.New("timeout")).Once()
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				var external *domain.ExternalError
				assert.ErrorAs(t, err, &external)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gate := new(GatewayMock)
			challenge := new(ChallengerMock)
			svc := New(repo, gate, challenge, newNoopLogger())

			tt.setupMocks(repo, gate)

			got, err := svc.Fund(context.Background(), "user-1", "ref-1")
			if tt.wantErr {
				assert.Error(t, err)
				if tt.checkErr != nil {
					tt.checkErr(t, err)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, balances, got)
			}

			repo.AssertExpectations(t)
			gate.AssertExpectations(t)
		})
	}
}

func TestWalletService_Withdraw(t *testing.T) {
	req := models.DummyWithdraw{Amount: 30000, RecipientCode: "RCP_123"}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, g *GatewayMock, c *ChallengerMock)
		wantStatus string
		wantErr    bool
		checkErr   func(t *testing.T, err error)
	}{
		{
			name: "accepted transfer stays pending until webhook",
			setupMocks: func(r *RepoMock, g *GatewayMock, c *ChallengerMock) {
				c.On("Verify", "user-1", "123456").Return(nil).Once()
				r.On("CreatePendingPayout", mock.Anything, mock.MatchedBy(func(p *models.Payout) bool {
					return p.Amount == 30000 && p.Status == models.PayoutPending && p.Reference != ""
				}), mock.MatchedBy(func(txn *models.Transaction) bool {
					return txn.Amount == -30000 && txn.Status == models.TxnPending
				})).Return(nil).Once()
				g.On("InitiateTransfer", mock.Anything, mock.MatchedBy(func(tr gateway.InitiateTransferRequest) bool {
					return tr.Amount == 30000 && tr.Recipient == "RCP_123" && tr.Source == "balance"
				})).Return(&gateway.TransferData{Status: "pending"}, nil).Once()
			},
			wantStatus: models.PayoutPending,
		},
		{
			name: "synchronous success resolves immediately",
			setupMocks: func(r *RepoMock, g *GatewayMock, c *ChallengerMock) {
				c.On("Verify", "user-1", "123456").Return(nil).Once()
				r.On("CreatePendingPayout", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				g.On("InitiateTransfer", mock.Anything, mock.Anything).
					Return(&gateway.TransferData{Status: "success"}, nil).Once()
				r.On("ResolvePayout", mock.Anything, mock.Anything, true).Return(nil).Once()
			},
			wantStatus: models.PayoutCompleted,
		},
		{
			name: "rejected transfer refunds the reservation",
			setupMocks: func(r *RepoMock, g *GatewayMock, c *ChallengerMock) {
				c.On("Verify", "user-1", "123456").Return(nil).Once()
				r.On("CreatePendingPayout", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
				g.On("InitiateTransfer", mock.Anything, mock.Anything).
					Return(nil, errors.New("recipient not found")).Once()
				r.On("ResolvePayout", mock.Anything, mock.Anything, false).Return(nil).Once()
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				var external *domain.ExternalError
				assert.ErrorAs(t, err, &external)
			},
		},
		{
			name: "wrong challenge code blocks the withdrawal",
			setupMocks: func(r *RepoMock, g *GatewayMock, c *ChallengerMock) {
				c.On("Verify", "user-1", "123456").Return(domain.ErrChallengeExpired).Once()
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrChallengeExpired)
			},
		},
		{
			name: "insufficient withdrawable propagated",
			setupMocks: func(r *RepoMock, g *GatewayMock, c *ChallengerMock) {
				c.On("Verify", "user-1", "123456").Return(nil).Once()
				r.On("CreatePendingPayout", mock.Anything, mock.Anything, mock.Anything).
					Return(&domain.InsufficientFundsError{Required: 30000, Available: 5000}).Once()
			},
			wantErr: true,
			checkErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gate := new(GatewayMock)
			challenge := new(ChallengerMock)
			svc := New(repo, gate, challenge, newNoopLogger())

			tt.setupMocks(repo, gate, challenge)

			payout, err := svc.Withdraw(context.Background(), "user-1", "123456", req)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.checkErr != nil {
					tt.checkErr(t, err)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, payout.Status)
			}

			repo.AssertExpectations(t)
			gate.AssertExpectations(t)
			challenge.AssertExpectations(t)
		})
	}
}

func TestWalletService_HandleWebhook(t *testing.T) {
	tests := []struct {
		name       string
		event      string
		setupMocks func(r *RepoMock)
	}{
		{
			name:  "transfer success resolves payout",
			event: "transfer.success",
			setupMocks: func(r *RepoMock) {
				r.On("ResolvePayout", mock.Anything, "ref-1", true).Return(nil).Once()
			},
		},
		{
			name:  "transfer failed refunds payout",
			event: "transfer.failed",
			setupMocks: func(r *RepoMock) {
				r.On("ResolvePayout", mock.Anything, "ref-1", false).Return(nil).Once()
			},
		},
		{
			name:  "transfer reversed refunds payout",
			event: "transfer.reversed",
			setupMocks: func(r *RepoMock) {
				r.On("ResolvePayout", mock.Anything, "ref-1", false).Return(nil).Once()
			},
		},
		{
			name:       "unknown event is ignored",
			event:      "charge.success",
			setupMocks: func(_ *RepoMock) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			gate := new(GatewayMock)
			challenge := new(ChallengerMock)
			svc := New(repo, gate, challenge, newNoopLogger())

			tt.setupMocks(repo)

			event := gateway.WebhookEvent{Event: tt.event}
			event.Data.Reference = "ref-1"

			assert.NoError(t, svc.HandleWebhook(context.Background(), event))

			repo.AssertExpectations(t)
		})
	}
}
