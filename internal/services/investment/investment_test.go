package investment

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}
func (m *RepoMock) ApplyInvestment(ctx context.Context, inv *models.Investment, txns []*models.Transaction) error {
	return m.Called(ctx, inv, txns).Error(0)
}
func (m *RepoMock) ListInvestments(ctx context.Context, userUID string) ([]*models.Investment, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Investment), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestInvestmentService_Register(t *testing.T) {
	invPkg := &models.Package{
		ID:             "pkg-inv",
		Family:         models.FamilyInvestment,
		Name:           "Farm estate fund",
		InterestRate:   15,
		DurationMonths: 12,
		IsActive:       true,
	}

	tests := []struct {
		name       string
		amount     int64
		setupMocks func(r *RepoMock)
		check      func(t *testing.T, inv *models.Investment)
		wantErr    error
	}{
		{
			name:   "roi is credited alongside the debit",
			amount: 200000,
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-inv").Return(invPkg, nil).Once()
				r.On("ApplyInvestment", mock.Anything, mock.MatchedBy(func(inv *models.Investment) bool {
					return inv.ROI == 30000 && inv.AmountInvested == 200000 && inv.InterestRate == 15
				}), mock.MatchedBy(func(txns []*models.Transaction) bool {
					return len(txns) == 2 &&
						txns[0].Amount == -200000 &&
						txns[1].Amount == 30000 &&
						txns[0].Type == models.TxnInvestment &&
						txns[1].Type == models.TxnInvestment
				})).Return(nil).Once()
			},
			check: func(t *testing.T, inv *models.Investment) {
				assert.Equal(t, int64(30000), inv.ROI)
				assert.Equal(t, inv.StartDate.AddDate(0, 12, 0), inv.MaturityDate)
			},
		},
		{
			name:   "roi truncates fractional minor units",
			amount: 101,
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-inv").Return(invPkg, nil).Once()
				// 101 * 15 / 100 = 15.15 -> 15
				r.On("ApplyInvestment", mock.Anything, mock.MatchedBy(func(inv *models.Investment) bool {
					return inv.ROI == 15
				}), mock.Anything).Return(nil).Once()
			},
			check: func(t *testing.T, inv *models.Investment) {
				assert.Equal(t, int64(15), inv.ROI)
			},
		},
		{
			name:   "non-investment package is rejected",
			amount: 1000,
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-inv").
					Return(&models.Package{ID: "pkg-inv", Family: models.FamilyFood, IsActive: true}, nil).Once()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:   "zero interest rate is rejected",
			amount: 1000,
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-inv").
					Return(&models.Package{ID: "pkg-inv", Family: models.FamilyInvestment, IsActive: true}, nil).Once()
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:   "insufficient funds propagated from repository",
			amount: 500000,
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-inv").Return(invPkg, nil).Once()
				r.On("ApplyInvestment", mock.Anything, mock.Anything, mock.Anything).
					Return(&domain.InsufficientFundsError{Required: 500000, Available: 100}).Once()
			},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())

			tt.setupMocks(repo)

			inv, err := svc.Register(context.Background(), "user-1", "pkg-inv", models.DummyInvestment{Amount: tt.amount})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, inv)
				}
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestInvestmentService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	expected := []*models.Investment{{ID: "i-1"}, {ID: "i-2"}}
	repo.On("ListInvestments", mock.Anything, "user-1").Return(expected, nil).Once()

	got, err := svc.List(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, expected, got)

	repo.AssertExpectations(t)
}
