package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growvest/growvest/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePackage(ctx context.Context, p *models.Package) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Package), args.Error(1)
}
func (m *RepoMock) ListPackages(ctx context.Context, family string) ([]*models.Package, error) {
	args := m.Called(ctx, family)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Package), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCatalogService_List(t *testing.T) {
	packages := []*models.Package{
		{ID: "p-1", Family: models.FamilyFood, Name: "Weekly basket"},
		{ID: "p-2", Family: models.FamilyFood, Name: "Monthly basket"},
	}

	tests := []struct {
		name       string
		family     string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       []*models.Package
		wantErr    bool
	}{
		{
			name:   "cache hit skips the repository",
			family: models.FamilyFood,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "packages:food", mock.Anything).Return(true, nil).Run(func(args mock.Arguments) {
					ptr := args.Get(1).(*[]*models.Package)
					*ptr = packages
				}).Once()
			},
			want: packages,
		},
		{
			name:   "cache miss loads and caches",
			family: models.FamilyFood,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "packages:food", mock.Anything).Return(false, nil).Once()
				r.On("ListPackages", mock.Anything, models.FamilyFood).Return(packages, nil).Once()
				c.On("Set", "packages:food", packages, time.Hour).Return(nil).Once()
			},
			want: packages,
		},
		{
			name:   "cache error falls back to repository",
			family: models.FamilyFood,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "packages:food", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("ListPackages", mock.Anything, models.FamilyFood).Return(packages, nil).Once()
				c.On("Set", "packages:food", packages, time.Hour).Return(errors.New("redis down")).Once()
			},
			want: packages,
		},
		{
			name:   "repository error propagated",
			family: models.FamilyFood,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", "packages:food", mock.Anything).Return(false, nil).Once()
				r.On("ListPackages", mock.Anything, models.FamilyFood).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := New(repo, cache, newNoopLogger())

			tt.setupMocks(repo, cache)

			got, err := svc.List(context.Background(), tt.family)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestCatalogService_Create(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := New(repo, cache, newNoopLogger())

	req := models.DummyPackage{
		Family:         models.FamilyCooperative,
		Name:           "Land savings circle",
		TargetAmount:   240000,
		DurationMonths: 6,
		Frequency:      models.FrequencyWeekly,
	}

	repo.On("CreatePackage", mock.Anything, mock.MatchedBy(func(p *models.Package) bool {
		return p.Family == models.FamilyCooperative &&
			p.TargetAmount == 240000 &&
			p.Frequency == models.FrequencyWeekly
	})).Return("p-9", nil).Once()
	cache.On("Invalidate", "packages:cooperative").Return(nil).Once()
	cache.On("Invalidate", "packages:").Return(nil).Once()

	id, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, "p-9", id)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}
