package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// JoinCooperative вставляет запись членства. Повторное вступление в тот же
// пакет упирается в первичный ключ и возвращает domain.ErrAlreadyMember.
func (s *Storage) JoinCooperative(ctx context.Context, m *models.CooperativeMember) error {
	const op = "storage.JoinCooperative"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO cooperative_members (package_id, user_uid, contribution_amount,
			      frequency, next_payment_date, payments_made, amount_paid, is_active,
			      joined_at, end_date, version)
			  VALUES ($1, $2, $3, $4, $5, 0, 0, TRUE, $6, $7, 1)`
	if _, err := s.DB.ExecContext(ctx, query,
		m.PackageID, m.UserUID, m.ContributionAmount, m.Frequency,
		m.NextPaymentDate, m.JoinedAt, m.EndDate); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, domain.ErrAlreadyMember)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LeaveCooperative помечает членство неактивным. Взносы при выходе
// не возвращаются.
func (s *Storage) LeaveCooperative(ctx context.Context, packageID, userUID string) error {
	const op = "storage.LeaveCooperative"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE cooperative_members
			  SET is_active = FALSE, left_at = now(), version = version + 1
			  WHERE package_id = $1 AND user_uid = $2 AND is_active`
	result, err := s.DB.ExecContext(ctx, query, packageID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotMember)
	}
	return nil
}

// GetCooperativeMember возвращает членство пользователя в пакете.
func (s *Storage) GetCooperativeMember(ctx context.Context, packageID, userUID string) (*models.CooperativeMember, error) {
	const op = "storage.GetCooperativeMember"
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
			  WHERE m.package_id = $1 AND m.user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, packageID, userUID)
	m, err := scanCooperativeMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotMember)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}

// ListCooperativeMemberships возвращает членства пользователя во всех пакетах.
func (s *Storage) ListCooperativeMemberships(ctx context.Context, userUID string) ([]*models.CooperativeMember, error) {
	const op = "storage.ListCooperativeMemberships"
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
			  WHERE m.user_uid = $1
			  ORDER BY m.joined_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
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

// ApplyCooperativePayment атомарно проводит кооперативный взнос: списывает
// wallet, пополняет cooperative-корзину и пул пакета, двигает членство
// в состояние, рассчитанное сервисом. Версия членства сверяется, конфликт
// конкурентного платежа возвращает domain.ErrConflict. Возвращает
// накопленный пул пакета после платежа.
func (s *Storage) ApplyCooperativePayment(ctx context.Context, m *models.CooperativeMember, amount int64, txn *models.Transaction) (int64, error) {
	const op = "storage.ApplyCooperativePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var poolAmount int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		wallet, err := lockWallet(ctx, tx, m.UserUID)
		if err != nil {
			return err
		}
		if wallet < amount {
			return &domain.InsufficientFundsError{Required: amount, Available: wallet}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE balances SET wallet = wallet - $1, cooperative = cooperative + $1
			 WHERE user_uid = $2`,
			amount, m.UserUID); err != nil {
			return err
		}

		query := `UPDATE cooperative_members
				  SET next_payment_date = $1, last_payment_date = $2, payments_made = $3,
				      amount_paid = $4, is_active = $5, version = version + 1
				  WHERE package_id = $6 AND user_uid = $7 AND version = $8`
		result, err := tx.ExecContext(ctx, query,
			m.NextPaymentDate, m.LastPaymentDate, m.PaymentsMade,
			m.AmountPaid, m.IsActive, m.PackageID, m.UserUID, m.Version)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return domain.ErrConflict
		}

		if err := tx.QueryRowContext(ctx,
			`UPDATE packages SET current_amount = current_amount + $1
			 WHERE id = $2
			 RETURNING current_amount`,
			amount, m.PackageID).Scan(&poolAmount); err != nil {
			return err
		}

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return poolAmount, nil
}

func scanCooperativeMember(row rowScanner) (*models.CooperativeMember, error) {
	m := &models.CooperativeMember{}
	var lastPaymentDate, leftAt sql.NullTime
	if err := row.Scan(&m.PackageID, &m.UserUID, &m.PackageName, &m.ContributionAmount,
		&m.Frequency, &m.NextPaymentDate, &lastPaymentDate, &m.PaymentsMade,
		&m.AmountPaid, &m.IsActive, &m.JoinedAt, &m.EndDate, &leftAt, &m.Version); err != nil {
		return nil, err
	}
	if lastPaymentDate.Valid {
		m.LastPaymentDate = &lastPaymentDate.Time
	}
	if leftAt.Valid {
		m.LeftAt = &leftAt.Time
	}
	return m, nil
}
