package contribution

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

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
func (m *RepoMock) ApplyPurchase(ctx context.Context, c *models.Contribution, txns []*models.Transaction) (int64, error) {
	args := m.Called(ctx, c, txns)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) GetContribution(ctx context.Context, id string) (*models.Contribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contribution), args.Error(1)
}
func (m *RepoMock) ApplyPayment(ctx context.Context, c *models.Contribution, amount int64, txn *models.Transaction) (int64, error) {
	args := m.Called(ctx, c, amount, txn)
	return args.Get(0).(int64), args.Error(1)
}
func (m *RepoMock) ListContributions(ctx context.Context, userUID, family string) ([]*models.Contribution, error) {
	args := m.Called(ctx, userUID, family)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contribution), args.Error(1)
}
func (m *RepoMock) ListMemberships(ctx context.Context, userUID string) ([]*models.MembershipSummary, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MembershipSummary), args.Error(1)
}
func (m *RepoMock) ListPaymentHistory(ctx context.Context, contributionID string) ([]*models.PaymentRecord, error) {
	args := m.Called(ctx, contributionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PaymentRecord), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestContributionService_Purchase(t *testing.T) {
	foodPkg := &models.Package{
		ID:       "pkg-food",
		Family:   models.FamilyFood,
		Name:     "Monthly basket",
		Price:    120000,
		IsActive: true,
	}
	rentPkg := &models.Package{
		ID:       "pkg-rent",
		Family:   models.FamilyRent,
		Name:     "Two bedroom flat",
		Price:    1000001,
		IsActive: true,
	}
	housingPkg := &models.Package{
		ID:       "pkg-housing",
		Family:   models.FamilyHousing,
		Name:     "Starter home",
		Price:    36000000,
		IsActive: true,
	}

	tests := []struct {
		name       string
		family     string
		packageID  string
		req        models.DummyPurchase
		setupMocks func(r *RepoMock)
		check      func(t *testing.T, res *models.PurchaseResult)
		wantErr    error
	}{
		{
			name:      "food purchase splits price evenly",
			family:    models.FamilyFood,
			packageID: "pkg-food",
			req:       models.DummyPurchase{Term: 12},
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-food").Return(foodPkg, nil).Once()
				r.On("ApplyPurchase", mock.Anything, mock.MatchedBy(func(c *models.Contribution) bool {
					return c.MonthlyPayment == 10000 &&
						c.PaidAmount == 10000 &&
						c.RemainingAmount == 110000 &&
						c.TotalMonths == 12 &&
						c.CurrentMonth == 1 &&
						c.IsActive && !c.IsCompleted
				}), mock.MatchedBy(func(txns []*models.Transaction) bool {
					return len(txns) == 1 &&
						txns[0].Type == models.TxnFoodPayment &&
						txns[0].Amount == -10000
				})).Return(int64(490000), nil).Once()
			},
			check: func(t *testing.T, res *models.PurchaseResult) {
				assert.Equal(t, int64(490000), res.WalletBalance)
			},
		},
		{
			name:      "rent upfront is 20 percent rounded up, client amount ignored",
			family:    models.FamilyRent,
			packageID: "pkg-rent",
			req:       models.DummyPurchase{Term: 6, FirstPaymentAmount: 1},
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-rent").Return(rentPkg, nil).Once()
				// ceil(1000001 * 20 / 100) = 200001
				r.On("ApplyPurchase", mock.Anything, mock.MatchedBy(func(c *models.Contribution) bool {
					return c.PaidAmount == 200001 && c.RemainingAmount == 800000
				}), mock.MatchedBy(func(txns []*models.Transaction) bool {
					return txns[0].Type == models.TxnRentUpfront && txns[0].Amount == -200001
				})).Return(int64(0), nil).Once()
			},
			check: func(t *testing.T, res *models.PurchaseResult) {
				assert.False(t, res.Contribution.IsCompleted)
			},
		},
		{
			name:      "housing term is in years",
			family:    models.FamilyHousing,
			packageID: "pkg-housing",
			req:       models.DummyPurchase{Term: 30},
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-housing").Return(housingPkg, nil).Once()
				r.On("ApplyPurchase", mock.Anything, mock.MatchedBy(func(c *models.Contribution) bool {
					return c.TotalMonths == 360 && c.MonthlyPayment == 100000
				}), mock.Anything).Return(int64(0), nil).Once()
			},
			check: func(t *testing.T, res *models.PurchaseResult) {
				assert.Equal(t, 360, res.Contribution.TotalMonths)
			},
		},
		{
			name:      "first payment covering full price completes immediately",
			family:    models.FamilyFood,
			packageID: "pkg-food",
			req:       models.DummyPurchase{Term: 1, FirstPaymentAmount: 120000},
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-food").Return(foodPkg, nil).Once()
				r.On("ApplyPurchase", mock.Anything, mock.MatchedBy(func(c *models.Contribution) bool {
					return c.IsCompleted && !c.IsActive && c.EndDate != nil && c.RemainingAmount == 0
				}), mock.Anything).Return(int64(0), nil).Once()
			},
			check: func(t *testing.T, res *models.PurchaseResult) {
				assert.True(t, res.Contribution.IsCompleted)
			},
		},
		{
			name:       "unknown family",
			family:     "jewellery",
			packageID:  "pkg-food",
			req:        models.DummyPurchase{Term: 3},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:       "rent term below minimum",
			family:     models.FamilyRent,
			packageID:  "pkg-rent",
			req:        models.DummyPurchase{Term: 1},
			setupMocks: func(_ *RepoMock) {},
			wantErr:    domain.ErrInvalidInput,
		},
		{
			name:      "family mismatch between route and package",
			family:    models.FamilyFood,
			packageID: "pkg-rent",
			req:       models.DummyPurchase{Term: 3},
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-rent").Return(rentPkg, nil).Once()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:      "insufficient funds propagated from repository",
			family:    models.FamilyFood,
			packageID: "pkg-food",
			req:       models.DummyPurchase{Term: 6},
			setupMocks: func(r *RepoMock) {
				r.On("GetPackage", mock.Anything, "pkg-food").Return(foodPkg, nil).Once()
				r.On("ApplyPurchase", mock.Anything, mock.Anything, mock.Anything).
					Return(int64(0), &domain.InsufficientFundsError{Required: 20000, Available: 100}).Once()
			},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())

			tt.setupMocks(repo)

			res, err := svc.Purchase(context.Background(), "user-1", tt.family, tt.packageID, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, res)
				}
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestContributionService_Pay(t *testing.T) {
	baseContribution := func() *models.Contribution {
		return &models.Contribution{
			ID:              "c-1",
			Family:          models.FamilyFood,
			UserUID:         "user-1",
			PackageID:       "pkg-food",
			Term:            3,
			TotalAmount:     30000,
			PaidAmount:      10000,
			RemainingAmount: 20000,
			MonthlyPayment:  10000,
			TotalMonths:     3,
			CurrentMonth:    1,
			NextPaymentDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			IsActive:        true,
		}
	}

	tests := []struct {
		name       string
		userUID    string
		amount     int64
		setupMocks func(r *RepoMock)
		check      func(t *testing.T, res *models.PurchaseResult)
		wantErr    error
	}{
		{
			name:    "regular installment advances the schedule",
			userUID: "user-1",
			amount:  10000,
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").Return(baseContribution(), nil).Once()
				r.On("ApplyPayment", mock.Anything, mock.MatchedBy(func(c *models.Contribution) bool {
					return c.PaidAmount == 20000 &&
						c.RemainingAmount == 10000 &&
						c.CurrentMonth == 2 &&
						!c.IsCompleted
				}), int64(10000), mock.MatchedBy(func(txn *models.Transaction) bool {
					return txn.Amount == -10000 && txn.Type == models.TxnFoodPayment
				})).Return(int64(90000), nil).Once()
			},
			check: func(t *testing.T, res *models.PurchaseResult) {
				assert.Equal(t, int64(90000), res.WalletBalance)
				assert.False(t, res.Contribution.IsCompleted)
				assert.WithinDuration(t, time.Now().Add(installmentPeriod),
					res.Contribution.NextPaymentDate, time.Minute)
			},
		},
		{
			name:    "overpayment closes the contribution",
			userUID: "user-1",
			amount:  25000,
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").Return(baseContribution(), nil).Once()
				r.On("ApplyPayment", mock.Anything, mock.MatchedBy(func(c *models.Contribution) bool {
					return c.IsCompleted && !c.IsActive && c.EndDate != nil && c.RemainingAmount == -5000
				}), int64(25000), mock.Anything).Return(int64(0), nil).Once()
			},
			check: func(t *testing.T, res *models.PurchaseResult) {
				assert.True(t, res.Contribution.IsCompleted)
			},
		},
		{
			name:    "foreign contribution is forbidden",
			userUID: "user-2",
			amount:  10000,
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").Return(baseContribution(), nil).Once()
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "completed contribution rejects payment",
			userUID: "user-1",
			amount:  10000,
			setupMocks: func(r *RepoMock) {
				c := baseContribution()
				c.IsCompleted = true
				c.IsActive = false
				r.On("GetContribution", mock.Anything, "c-1").Return(c, nil).Once()
			},
			wantErr: domain.ErrAlreadyCompleted,
		},
		{
			name:    "concurrent payment conflict propagated",
			userUID: "user-1",
			amount:  10000,
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").Return(baseContribution(), nil).Once()
				r.On("ApplyPayment", mock.Anything, mock.Anything, int64(10000), mock.Anything).
					Return(int64(0), domain.ErrConflict).Once()
			},
			wantErr: domain.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())

			tt.setupMocks(repo)

			res, err := svc.Pay(context.Background(), tt.userUID, "c-1", models.DummyPayment{Amount: tt.amount})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, res)
				}
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestContributionService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	expected := []*models.Contribution{{ID: "c-1"}, {ID: "c-2"}}
	repo.On("ListContributions", mock.Anything, "user-1", models.FamilyHousehold).Return(expected, nil).Once()

	got, err := svc.List(context.Background(), "user-1", models.FamilyHousehold)
	assert.NoError(t, err)
	assert.Equal(t, expected, got)

	_, err = svc.List(context.Background(), "user-1", "unknown")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	repo.AssertExpectations(t)
}

func TestContributionService_History(t *testing.T) {
	tests := []struct {
		name       string
		userUID    string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:    "owner reads history",
			userUID: "user-1",
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").
					Return(&models.Contribution{ID: "c-1", UserUID: "user-1"}, nil).Once()
				r.On("ListPaymentHistory", mock.Anything, "c-1").
					Return([]*models.PaymentRecord{{ID: "p-1"}}, nil).Once()
			},
		},
		{
			name:    "foreign history is forbidden",
			userUID: "user-2",
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").
					Return(&models.Contribution{ID: "c-1", UserUID: "user-1"}, nil).Once()
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:    "missing contribution",
			userUID: "user-1",
			setupMocks: func(r *RepoMock) {
				r.On("GetContribution", mock.Anything, "c-1").Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())

			tt.setupMocks(repo)

			_, err := svc.History(context.Background(), tt.userUID, "c-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestPolicy_ValidTerm(t *testing.T) {
	tests := []struct {
		family string
		term   int
		want   bool
	}{
		{models.FamilyFood, 1, true},
		{models.FamilyFood, 12, true},
		{models.FamilyFood, 13, false},
		{models.FamilyHousehold, 6, true},
		{models.FamilyHousehold, 7, false},
		{models.FamilyHousing, 30, true},
		{models.FamilyHousing, 31, false},
		{models.FamilyRent, 1, false},
		{models.FamilyRent, 2, true},
		{models.FamilyRent, 12, true},
	}

	for _, tt := range tests {
		p, ok := PolicyFor(tt.family)
		assert.True(t, ok)
		assert.Equal(t, tt.want, p.ValidTerm(tt.term), "family %s term %d", tt.family, tt.term)
	}
}

// Просроченный платёж сдвигает срок от момента оплаты, а не от старой даты:
// иначе следующий срок у опоздавшего так и остаётся в прошлом.
func TestContributionService_Pay_LatePaymentReschedulesFromNow(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	overdue := &models.Contribution{
		ID:              "c-1",
		Family:          models.FamilyFood,
		UserUID:         "user-1",
		PackageID:       "pkg-food",
		TotalAmount:     30000,
		PaidAmount:      10000,
		RemainingAmount: 20000,
		MonthlyPayment:  10000,
		TotalMonths:     3,
		CurrentMonth:    1,
		NextPaymentDate: time.Now().AddDate(0, 0, -90),
		IsActive:        true,
	}
	repo.On("GetContribution", mock.Anything, "c-1").Return(overdue, nil).Once()
	repo.On("ApplyPayment", mock.Anything, mock.Anything, int64(10000), mock.Anything).
		Return(int64(50000), nil).Once()

	res, err := svc.Pay(context.Background(), "user-1", "c-1", models.DummyPayment{Amount: 10000})
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(installmentPeriod),
		res.Contribution.NextPaymentDate, time.Minute)
	assert.True(t, res.Contribution.NextPaymentDate.After(time.Now()))

	repo.AssertExpectations(t)
}

func TestContributionService_Pay_RepoErrorPropagated(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	repo.On("GetContribution", mock.Anything, "c-404").Return(nil, errors.New("db down")).Once()

	_, err := svc.Pay(context.Background(), "user-1", "c-404", models.DummyPayment{Amount: 100})
	assert.Error(t, err)

	repo.AssertExpectations(t)
}
