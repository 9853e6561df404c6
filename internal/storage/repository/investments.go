package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// ApplyInvestment атомарно регистрирует инвестицию: списывает wallet,
// пополняет invested на сумму вклада и withdrawable на доход, вставляет
// запись инвестиции и строки журнала.
func (s *Storage) ApplyInvestment(ctx context.Context, inv *models.Investment, txns []*models.Transaction) error {
	const op = "storage.ApplyInvestment"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		wallet, err := lockWallet(ctx, tx, inv.UserUID)
		if err != nil {
			return err
		}
		if wallet < inv.AmountInvested {
			return &domain.InsufficientFundsError{Required: inv.AmountInvested, Available: wallet}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE balances
			 SET wallet = wallet - $1, invested = invested + $1, withdrawable = withdrawable + $2
			 WHERE user_uid = $3`,
			inv.AmountInvested, inv.ROI, inv.UserUID); err != nil {
			return err
		}

		query := `INSERT INTO investments (id, user_uid, package_id, amount_invested,
				      interest_rate, roi, start_date, maturity_date)
				  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		if _, err := tx.ExecContext(ctx, query,
			inv.ID, inv.UserUID, inv.PackageID, inv.AmountInvested,
			inv.InterestRate, inv.ROI, inv.StartDate, inv.MaturityDate); err != nil {
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
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListInvestments возвращает инвестиции пользователя.
func (s *Storage) ListInvestments(ctx context.Context, userUID string) ([]*models.Investment, error) {
	const op = "storage.ListInvestments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT i.id, i.user_uid, i.package_id, p.name, i.amount_invested,
			      i.interest_rate, i.roi, i.start_date, i.maturity_date
			  FROM investments i
			  JOIN packages p ON p.id = i.package_id
			  WHERE i.user_uid = $1
			  ORDER BY i.start_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var result []*models.Investment
	for rows.Next() {
		inv := &models.Investment{}
		if err := rows.Scan(&inv.ID, &inv.UserUID, &inv.PackageID, &inv.PackageName,
			&inv.AmountInvested, &inv.InterestRate, &inv.ROI,
			&inv.StartDate, &inv.MaturityDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
