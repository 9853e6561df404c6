// Package catalog реализует чтение и администрирование каталога пакетов
// с кешированием горячих выборок.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/growvest/growvest/internal/models"
)

const cacheTTL = time.Hour

// Repository определяет методы хранилища для работы с каталогом.
type Repository interface {
	// CreatePackage добавляет запись каталога и возвращает её ID.
	CreatePackage(ctx context.Context, p *models.Package) (string, error)
	// GetPackage возвращает запись каталога по ID.
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	// ListPackages возвращает активные записи каталога семейства.
	ListPackages(ctx context.Context, family string) ([]*models.Package, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику каталога.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает активные пакеты семейства, отдавая кешированную выборку,
// если она ещё жива.
func (s *Service) List(ctx context.Context, family string) ([]*models.Package, error) {
	cacheKey := "packages:" + family
	var cached []*models.Package
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read package cache",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListPackages(ctx, family)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache packages",
			slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Get возвращает запись каталога по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Package, error) {
	return s.repo.GetPackage(ctx, id)
}

// Create добавляет запись каталога и инвалидирует кеш её семейства.
func (s *Service) Create(ctx context.Context, req models.DummyPackage) (string, error) {
	p := &models.Package{
		Family:         req.Family,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		TargetAmount:   req.TargetAmount,
		DurationMonths: req.DurationMonths,
		Frequency:      req.Frequency,
		InterestRate:   req.InterestRate,
	}
	id, err := s.repo.CreatePackage(ctx, p)
	if err != nil {
		return "", err
	}

	for _, key := range []string{"packages:" + req.Family, "packages:"} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate package cache",
				slog.String("key", key), slog.Any("err", err))
		}
	}
	s.log.Info("created package", slog.String("id", id), slog.String("family", req.Family))
	return id, nil
}
