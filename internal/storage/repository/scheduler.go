package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/growvest/growvest/internal/models"
)

// FindDueContributions возвращает активные взносы, очередной платёж которых
// наступает не позже deadline.
func (s *Storage) FindDueContributions(ctx context.Context, deadline time.Time) ([]*models.Contribution, error) {
	const op = "storage.FindDueContributions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, family, user_uid, package_id, term, total_amount, paid_amount,
			      remaining_amount, monthly_payment, total_months, current_month,
			      next_payment_date, start_date, end_date, is_active, is_completed, version
			  FROM contributions
			  WHERE is_active AND NOT is_completed AND next_payment_date <= $1
			  ORDER BY next_payment_date`
	rows, err := s.DB.QueryContext(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Contribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindDueCooperativeMembers возвращает активные членства, кооперативный
// взнос которых наступает не позже deadline.
func (s *Storage) FindDueCooperativeMembers(ctx context.Context, deadline time.Time) ([]*models.CooperativeMember, error) {
	const op = "storage.FindDueCooperativeMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT m.package_id, m.user_uid, p.name, m.contribution_amount, m.frequency,
			      m.next_payment_date, m.last_payment_date, m.payments_made, m.amount_paid,
			      m.is_active, m.joined_at, m.end_date, m.left_at, m.version
			  FROM cooperative_members m
			  JOIN packages p ON p.id = m.package_id
			  WHERE m.is_active AND m.next_payment_date <= $1
			  ORDER BY m.next_payment_date`
	rows, err := s.DB.QueryContext(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.CooperativeMember
	for rows.Next() {
		m, err := scanCooperativeMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
