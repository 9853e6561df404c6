package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// CreatePackage добавляет запись каталога и возвращает её ID.
func (s *Storage) CreatePackage(ctx context.Context, p *models.Package) (string, error) {
	const op = "storage.CreatePackage"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	newID := uuid.NewString()
	query := `INSERT INTO packages (id, family, name, description, price, is_active,
			      target_amount, duration_months, frequency, contribution_amount,
			      interest_rate)
			  VALUES ($1, $2, $3, $4, $5, TRUE, $6, $7, $8, $9, $10)`
	if _, err := s.DB.ExecContext(ctx, query,
		newID, p.Family, p.Name, p.Description, p.Price,
		p.TargetAmount, p.DurationMonths, p.Frequency, p.ContributionAmount,
		p.InterestRate); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPackage возвращает запись каталога по её ID.
func (s *Storage) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	const op = "storage.GetPackage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, family, name, description, price, is_active, target_amount,
			      duration_months, frequency, contribution_amount, current_amount,
			      interest_rate, created_at
			  FROM packages WHERE id = $1`
	p := &models.Package{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Family, &p.Name, &p.Description, &p.Price, &p.IsActive,
		&p.TargetAmount, &p.DurationMonths, &p.Frequency, &p.ContributionAmount,
		&p.CurrentAmount, &p.InterestRate, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPackages возвращает активные записи каталога; family сужает выборку
// до одного семейства, пустая строка возвращает весь каталог.
func (s *Storage) ListPackages(ctx context.Context, family string) ([]*models.Package, error) {
	const op = "storage.ListPackages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, family, name, description, price, is_active, target_amount,
			      duration_months, frequency, contribution_amount, current_amount,
			      interest_rate, created_at
			  FROM packages
			  WHERE is_active AND ($1 = '' OR family = $1)
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, family)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Package
	for rows.Next() {
		p := &models.Package{}
		if err := rows.Scan(&p.ID, &p.Family, &p.Name, &p.Description, &p.Price,
			&p.IsActive, &p.TargetAmount, &p.DurationMonths, &p.Frequency,
			&p.ContributionAmount, &p.CurrentAmount, &p.InterestRate, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
