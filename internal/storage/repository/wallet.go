package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// GetBalances возвращает корзины баланса пользователя.
func (s *Storage) GetBalances(ctx context.Context, userUID string) (*models.Balances, error) {
	const op = "storage.GetBalances"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT wallet, withdrawable, invested, cooperative
			  FROM balances WHERE user_uid = $1`
	b := &models.Balances{}
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&b.Wallet, &b.Withdrawable, &b.Invested, &b.Cooperative)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

// CreditWalletIdempotent зачисляет подтверждённый внешний платёж в wallet.
// Запись журнала с тем же reference уже существует — значит подтверждение
// доставлено повторно: зачисление пропускается, возвращается false.
func (s *Storage) CreditWalletIdempotent(ctx context.Context, txn *models.Transaction) (bool, error) {
	const op = "storage.CreditWalletIdempotent"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	credited := true
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertTransaction(ctx, tx, txn); err != nil {
			if isUniqueViolation(err) {
				credited = false
				return nil
			}
			return err
		}
		result, err := tx.ExecContext(ctx,
			`UPDATE balances SET wallet = wallet + $1 WHERE user_uid = $2`,
			txn.Amount, txn.UserUID)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return credited, nil
}

// CreatePendingPayout резервирует вывод средств: списывает withdrawable
// сразу, создаёт выплату в статусе pending и строку журнала. Итог внешнего
// перевода разрешается позже через ResolvePayout.
func (s *Storage) CreatePendingPayout(ctx context.Context, p *models.Payout, txn *models.Transaction) error {
	const op = "storage.CreatePendingPayout"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var withdrawable int64
		if err := tx.QueryRowContext(ctx,
			`SELECT withdrawable FROM balances WHERE user_uid = $1 FOR UPDATE`,
			p.UserUID).Scan(&withdrawable); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if withdrawable < p.Amount {
			return &domain.InsufficientFundsError{Required: p.Amount, Available: withdrawable}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE balances SET withdrawable = withdrawable - $1 WHERE user_uid = $2`,
			p.Amount, p.UserUID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payouts (reference, user_uid, amount, status)
			 VALUES ($1, $2, $3, 'pending')`,
			p.Reference, p.UserUID, p.Amount); err != nil {
			return err
		}
		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ResolvePayout разрешает ранее созданную выплату. Успех оставляет списание
// в силе, неуспех возвращает сумму в withdrawable. Уже разрешённая выплата
// не трогается: повторная доставка итога безопасна.
func (s *Storage) ResolvePayout(ctx context.Context, reference string, success bool) error {
	const op = "storage.ResolvePayout"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var userUID, status string
		var amount int64
		err := tx.QueryRowContext(ctx,
			`SELECT user_uid, amount, status FROM payouts WHERE reference = $1 FOR UPDATE`,
			reference).Scan(&userUID, &amount, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if status != models.PayoutPending {
			return nil
		}

		newStatus := models.PayoutCompleted
		txnStatus := models.TxnCompleted
		if !success {
			newStatus = models.PayoutFailed
			txnStatus = models.TxnFailed
			if _, err := tx.ExecContext(ctx,
				`UPDATE balances SET withdrawable = withdrawable + $1 WHERE user_uid = $2`,
				amount, userUID); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE payouts SET status = $1, resolved_at = now() WHERE reference = $2`,
			newStatus, reference); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET status = $1 WHERE reference = $2`,
			txnStatus, reference); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPayout возвращает выплату по её reference.
func (s *Storage) GetPayout(ctx context.Context, reference string) (*models.Payout, error) {
	const op = "storage.GetPayout"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT reference, user_uid, amount, status, created_at, resolved_at
			  FROM payouts WHERE reference = $1`
	p := &models.Payout{}
	var resolvedAt sql.NullTime
	err := s.DB.QueryRowContext(ctx, query, reference).Scan(
		&p.Reference, &p.UserUID, &p.Amount, &p.Status, &p.CreatedAt, &resolvedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resolvedAt.Valid {
		p.ResolvedAt = &resolvedAt.Time
	}
	return p, nil
}
