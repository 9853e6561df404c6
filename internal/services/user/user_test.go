package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/lib/jwt"
	"github.com/growvest/growvest/internal/lib/password"
	"github.com/growvest/growvest/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) UpdateProfile(ctx context.Context, userUID, firstName, lastName, phoneNumber string) error {
	return m.Called(ctx, userUID, firstName, lastName, phoneNumber).Error(0)
}
func (m *RepoMock) UpdateKYCStatus(ctx context.Context, userUID, status string) error {
	return m.Called(ctx, userUID, status).Error(0)
}
func (m *RepoMock) ActivateUser(ctx context.Context, txn *models.Transaction, expiration time.Time) (int64, error) {
	args := m.Called(ctx, txn, expiration)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestUserService_Register(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newTestMaker(), newNoopLogger())

	repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "john@example.com" &&
			u.Username == "john" &&
			u.Role == "user" &&
			u.KYCStatus == models.KYCNotSubmitted &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil).Once()

	uid, err := svc.Register(context.Background(), "john@example.com", "john", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, "uid-1", uid)

	repo.AssertExpectations(t)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newTestMaker(), newNoopLogger())

	repo.On("RegisterUser", mock.Anything, mock.Anything).Return("", domain.ErrConflict).Once()

	_, err := svc.Register(context.Background(), "john@example.com", "john", "secret123")
	assert.ErrorIs(t, err, domain.ErrConflict)

	repo.AssertExpectations(t)
}

func TestUserService_Login(t *testing.T) {
	hashed, err := password.GetHash("secret123")
	assert.NoError(t, err)

	validUser := &models.User{
		UID:          "uid-1",
		Username:     "john",
		PasswordHash: hashed,
		Role:         "user",
	}

	tests := []struct {
		name       string
		username   string
		rawPass    string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:     "valid credentials return a token",
			username: "john",
			rawPass:  "secret123",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "john").Return(validUser, nil).Once()
			},
		},
		{
			name:     "wrong password",
			username: "john",
			rawPass:  "wrong",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "john").Return(validUser, nil).Once()
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name:     "unknown username yields the same error",
			username: "ghost",
			rawPass:  "secret123",
			setupMocks: func(r *RepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, domain.ErrNotFound).Once()
			},
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			maker := newTestMaker()
			svc := New(repo, maker, newNoopLogger())

			tt.setupMocks(repo)

			token, role, err := svc.Login(context.Background(), tt.username, tt.rawPass)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "user", role)

				claims, err := maker.ParseToken(token)
				assert.NoError(t, err)
				assert.Equal(t, "uid-1", claims.UserUID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Activate(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantWallet int64
		wantErr    error
	}{
		{
			name: "completed profile activates and debits the fee",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", ProfileCompleted: true}, nil).Once()
				r.On("ActivateUser", mock.Anything, mock.MatchedBy(func(txn *models.Transaction) bool {
					return txn.Type == models.TxnActivationFee && txn.Amount == -ActivationFee
				}), mock.MatchedBy(func(expiration time.Time) bool {
					return expiration.After(time.Now().AddDate(0, 11, 0))
				})).Return(int64(250000), nil).Once()
			},
			wantWallet: 250000,
		},
		{
			name: "incomplete profile blocks activation",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1"}, nil).Once()
			},
			wantErr: domain.ErrProfileIncomplete,
		},
		{
			name: "double activation propagated",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", ProfileCompleted: true}, nil).Once()
				r.On("ActivateUser", mock.Anything, mock.Anything, mock.Anything).
					Return(int64(0), domain.ErrAlreadyActivated).Once()
			},
			wantErr: domain.ErrAlreadyActivated,
		},
		{
			name: "insufficient wallet propagated",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", ProfileCompleted: true}, nil).Once()
				r.On("ActivateUser", mock.Anything, mock.Anything, mock.Anything).
					Return(int64(0), &domain.InsufficientFundsError{Required: ActivationFee, Available: 100}).Once()
			},
			wantErr: domain.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newTestMaker(), newNoopLogger())

			tt.setupMocks(repo)

			wallet, err := svc.Activate(context.Background(), "uid-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantWallet, wallet)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_SubmitKYC(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "submission moves status to pending",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1", ProfileCompleted: true}, nil).Once()
				r.On("UpdateKYCStatus", mock.Anything, "uid-1", models.KYCPending).Return(nil).Once()
			},
		},
		{
			name: "incomplete profile blocks submission",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "uid-1").
					Return(&models.User{UID: "uid-1"}, nil).Once()
			},
			wantErr: domain.ErrProfileIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newTestMaker(), newNoopLogger())

			tt.setupMocks(repo)

			err := svc.SubmitKYC(context.Background(), "uid-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_ReviewKYC(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newTestMaker(), newNoopLogger())

	repo.On("UpdateKYCStatus", mock.Anything, "uid-1", models.KYCVerified).Return(nil).Once()
	assert.NoError(t, svc.ReviewKYC(context.Background(), "uid-1", true))

	repo.On("UpdateKYCStatus", mock.Anything, "uid-1", models.KYCRejected).Return(nil).Once()
	assert.NoError(t, svc.ReviewKYC(context.Background(), "uid-1", false))

	repo.AssertExpectations(t)
}

func TestIsActivated(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{
			name: "active with future expiration",
			user: models.User{IsActivated: true, ActivationExpiration: &future},
			want: true,
		},
		{
			name: "active without expiration",
			user: models.User{IsActivated: true},
			want: true,
		},
		{
			name: "expired activation",
			user: models.User{IsActivated: true, ActivationExpiration: &past},
			want: false,
		},
		{
			name: "never activated",
			user: models.User{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActivated(&tt.user))
		})
	}
}
