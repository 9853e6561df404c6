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

// lockWallet блокирует строку баланса пользователя и возвращает wallet.
func lockWallet(ctx context.Context, tx *sql.Tx, userUID string) (int64, error) {
	var wallet int64
	err := tx.QueryRowContext(ctx,
		`SELECT wallet FROM balances WHERE user_uid = $1 FOR UPDATE`,
		userUID).Scan(&wallet)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	return wallet, err
}

// ApplyPurchase атомарно создаёт взнос: блокирует корзины, проверяет
// достаточность wallet на сумму всех списаний, списывает её, вставляет
// взнос, запись истории и строки журнала. Возвращает wallet после списания.
func (s *Storage) ApplyPurchase(ctx context.Context, c *models.Contribution, txns []*models.Transaction) (int64, error) {
	const op = "storage.ApplyPurchase"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var debit int64
	for _, txn := range txns {
		debit += -txn.Amount
	}

	var wallet int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		wallet, err = lockWallet(ctx, tx, c.UserUID)
		if err != nil {
			return err
		}
		if wallet < debit {
			return &domain.InsufficientFundsError{Required: debit, Available: wallet}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE balances SET wallet = wallet - $1 WHERE user_uid = $2`,
			debit, c.UserUID); err != nil {
			return err
		}
		wallet -= debit

		query := `INSERT INTO contributions (id, family, user_uid, package_id, term,
				      total_amount, paid_amount, remaining_amount, monthly_payment,
				      total_months, current_month, next_payment_date, start_date,
				      is_active, is_completed, version)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1)`
		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Family, c.UserUID, c.PackageID, c.Term,
			c.TotalAmount, c.PaidAmount, c.RemainingAmount, c.MonthlyPayment,
			c.TotalMonths, c.CurrentMonth, c.NextPaymentDate, c.StartDate,
			c.IsActive, c.IsCompleted); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payment_history (id, contribution_id, amount, method, status)
			 VALUES ($1, $2, $3, 'wallet', 'completed')`,
			uuid.NewString(), c.ID, c.PaidAmount); err != nil {
			return err
		}

		for _, txn := range txns {
			if err := insertTransaction(ctx, tx, txn); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

// ApplyPayment атомарно проводит очередной платёж по взносу: списывает
// wallet, переводит взнос в состояние, рассчитанное сервисом, и пишет
// историю с журналом. Версия взноса сверяется: если с момента чтения его
// изменил конкурентный платёж, операция возвращает domain.ErrConflict.
func (s *Storage) ApplyPayment(ctx context.Context, c *models.Contribution, amount int64, txn *models.Transaction) (int64, error) {
	const op = "storage.ApplyPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var wallet int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		wallet, err = lockWallet(ctx, tx, c.UserUID)
		if err != nil {
			return err
		}
		if wallet < amount {
			return &domain.InsufficientFundsError{Required: amount, Available: wallet}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE balances SET wallet = wallet - $1 WHERE user_uid = $2`,
			amount, c.UserUID); err != nil {
			return err
		}
		wallet -= amount

		query := `UPDATE contributions
				  SET paid_amount = $1, remaining_amount = $2, current_month = $3,
				      next_payment_date = $4, end_date = $5, is_active = $6,
				      is_completed = $7, version = version + 1
				  WHERE id = $8 AND version = $9`
		result, err := tx.ExecContext(ctx, query,
			c.PaidAmount, c.RemainingAmount, c.CurrentMonth,
			c.NextPaymentDate, c.EndDate, c.IsActive,
			c.IsCompleted, c.ID, c.Version)
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

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payment_history (id, contribution_id, amount, method, status)
			 VALUES ($1, $2, $3, 'wallet', 'completed')`,
			uuid.NewString(), c.ID, amount); err != nil {
			return err
		}

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}

// GetContribution возвращает взнос по его ID.
func (s *Storage) GetContribution(ctx context.Context, id string) (*models.Contribution, error) {
	const op = "storage.GetContribution"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, family, user_uid, package_id, term, total_amount, paid_amount,
			      remaining_amount, monthly_payment, total_months, current_month,
			      next_payment_date, start_date, end_date, is_active, is_completed, version
			  FROM contributions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	c, err := scanContribution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// ListContributions возвращает взносы пользователя внутри одного семейства.
func (s *Storage) ListContributions(ctx context.Context, userUID, family string) ([]*models.Contribution, error) {
	const op = "storage.ListContributions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, family, user_uid, package_id, term, total_amount, paid_amount,
			      remaining_amount, monthly_payment, total_months, current_month,
			      next_payment_date, start_date, end_date, is_active, is_completed, version
			  FROM contributions
			  WHERE user_uid = $1 AND family = $2
			  ORDER BY start_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID, family)
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

// ListMemberships строит сводку всех взносов пользователя по всем семействам.
func (s *Storage) ListMemberships(ctx context.Context, userUID string) ([]*models.MembershipSummary, error) {
	const op = "storage.ListMemberships"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT c.id, c.family, COALESCE(p.name, ''), c.start_date,
			      CASE WHEN c.is_completed THEN 'completed' ELSE 'active' END
			  FROM contributions c
			  LEFT JOIN packages p ON p.id = c.package_id
			  WHERE c.user_uid = $1
			  ORDER BY c.start_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.MembershipSummary
	for rows.Next() {
		m := &models.MembershipSummary{}
		if err := rows.Scan(&m.ContributionID, &m.Family, &m.PackageName,
			&m.StartDate, &m.Status); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPaymentHistory возвращает историю платежей одного взноса.
func (s *Storage) ListPaymentHistory(ctx context.Context, contributionID string) ([]*models.PaymentRecord, error) {
	const op = "storage.ListPaymentHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, contribution_id, amount, method, status, paid_at
			  FROM payment_history
			  WHERE contribution_id = $1
			  ORDER BY paid_at`
	rows, err := s.DB.QueryContext(ctx, query, contributionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.PaymentRecord
	for rows.Next() {
		p := &models.PaymentRecord{}
		if err := rows.Scan(&p.ID, &p.ContributionID, &p.Amount,
			&p.Method, &p.Status, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContribution(row rowScanner) (*models.Contribution, error) {
	c := &models.Contribution{}
	var endDate sql.NullTime
	if err := row.Scan(&c.ID, &c.Family, &c.UserUID, &c.PackageID, &c.Term,
		&c.TotalAmount, &c.PaidAmount, &c.RemainingAmount, &c.MonthlyPayment,
		&c.TotalMonths, &c.CurrentMonth, &c.NextPaymentDate, &c.StartDate,
		&endDate, &c.IsActive, &c.IsCompleted, &c.Version); err != nil {
		return nil, err
	}
	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	return c, nil
}
