package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// insertTransaction вставляет строку журнала внутри открытой транзакции базы.
func insertTransaction(ctx context.Context, tx *sql.Tx, txn *models.Transaction) error {
	query := `INSERT INTO transactions (id, user_uid, type, amount, status, description,
			      reference, transfer_code, package_id)
			  VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, '')::uuid)`
	_, err := tx.ExecContext(ctx, query,
		txn.ID, txn.UserUID, txn.Type, txn.Amount, txn.Status, txn.Description,
		txn.Reference, txn.TransferCode, txn.PackageID)
	return err
}

// ListTransactions возвращает страницу журнала по фильтру. Пустые поля
// фильтра не ограничивают выборку. Сортировка — от новых к старым.
func (s *Storage) ListTransactions(ctx context.Context, filter models.TransactionFilter, page, limit int) (*models.TransactionPage, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where := ` WHERE 1=1`
	args := []any{}
	addArg := func(clause string, v any) {
		args = append(args, v)
		where += clause + "$" + strconv.Itoa(len(args))
	}
	if filter.Type != "" {
		addArg(` AND type = `, filter.Type)
	}
	if filter.Status != "" {
		addArg(` AND status = `, filter.Status)
	}
	if filter.UserUID != "" {
		addArg(` AND user_uid = `, filter.UserUID)
	}
	if filter.DateFrom != nil {
		addArg(` AND created_at >= `, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addArg(` AND created_at <= `, *filter.DateTo)
	}

	var total int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT id, user_uid, type, amount, status, description,
			      COALESCE(reference, ''), COALESCE(transfer_code, ''),
			      COALESCE(package_id::text, ''), created_at
			  FROM transactions` + where +
		` ORDER BY created_at DESC
		  LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	result := &models.TransactionPage{Page: page, Limit: limit, Total: total}
	for rows.Next() {
		txn := &models.Transaction{}
		if err := rows.Scan(&txn.ID, &txn.UserUID, &txn.Type, &txn.Amount, &txn.Status,
			&txn.Description, &txn.Reference, &txn.TransferCode,
			&txn.PackageID, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Results = append(result.Results, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTransaction возвращает запись журнала вместе со сведениями о владельце.
func (s *Storage) GetTransaction(ctx context.Context, id string) (*models.Transaction, *models.TransactionOwner, error) {
	const op = "storage.GetTransaction"
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.user_uid, t.type, t.amount, t.status, t.description,
			      COALESCE(t.reference, ''), COALESCE(t.transfer_code, ''),
			      COALESCE(t.package_id::text, ''), t.created_at,
			      u.email, u.first_name, u.last_name
			  FROM transactions t
			  JOIN users u ON u.uid = t.user_uid
			  WHERE t.id = $1`
	txn := &models.Transaction{}
	owner := &models.TransactionOwner{}
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&txn.ID, &txn.UserUID, &txn.Type, &txn.Amount, &txn.Status, &txn.Description,
		&txn.Reference, &txn.TransferCode, &txn.PackageID, &txn.CreatedAt,
		&owner.Email, &owner.FirstName, &owner.LastName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	owner.UserUID = txn.UserUID
	return txn, owner, nil
}
