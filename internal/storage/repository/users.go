package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/models"
)

// RegisterUser сохраняет нового пользователя и открывает ему нулевые
// корзины баланса одним коммитом. Возвращает UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	newID := uuid.NewString()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query := `INSERT INTO users (uid, email, username, password_hash, role)
				  VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, query,
			newID, user.Email, user.Username, user.PasswordHash, user.Role); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO balances (user_uid) VALUES ($1)`, newID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.scanUser(ctx, `WHERE username = $1`, username, op)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	return s.scanUser(ctx, `WHERE uid = $1`, userUID, op)
}

func (s *Storage) scanUser(ctx context.Context, where, arg, op string) (*models.User, error) {
	query := `SELECT uid, email, username, password_hash, role, first_name, last_name,
			      phone_number, profile_completed, is_activated, activation_date,
			      activation_expiration, kyc_status, created_at
			  FROM users ` + where
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, arg)

	var activationDate, activationExpiration sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.PhoneNumber, &u.ProfileCompleted, &u.IsActivated,
		&activationDate, &activationExpiration, &u.KYCStatus, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if activationDate.Valid {
		u.ActivationDate = &activationDate.Time
	}
	if activationExpiration.Valid {
		u.ActivationExpiration = &activationExpiration.Time
	}
	return u, nil
}

// UpdateProfile заполняет анкету пользователя и помечает профиль заполненным.
func (s *Storage) UpdateProfile(ctx context.Context, userUID, firstName, lastName, phoneNumber string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = $1, last_name = $2, phone_number = $3, profile_completed = TRUE
			  WHERE uid = $4`
	result, err := s.DB.ExecContext(ctx, query, firstName, lastName, phoneNumber, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// UpdateKYCStatus переводит заявку KYC пользователя в новый статус.
func (s *Storage) UpdateKYCStatus(ctx context.Context, userUID, status string) error {
	const op = "storage.UpdateKYCStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET kyc_status = $1 WHERE uid = $2`, status, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// ActivateUser списывает активационный взнос из wallet-корзины и помечает
// аккаунт активированным до expiration. Повторная активация не списывает
// взнос второй раз.
func (s *Storage) ActivateUser(ctx context.Context, txn *models.Transaction, expiration time.Time) (int64, error) {
	const op = "storage.ActivateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	fee := -txn.Amount
	var wallet int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT wallet FROM balances WHERE user_uid = $1 FOR UPDATE`,
			txn.UserUID).Scan(&wallet); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}

		var isActivated bool
		if err := tx.QueryRowContext(ctx,
			`SELECT is_activated FROM users WHERE uid = $1`,
			txn.UserUID).Scan(&isActivated); err != nil {
			return err
		}
		if isActivated {
			return domain.ErrAlreadyActivated
		}
		if wallet < fee {
			return &domain.InsufficientFundsError{Required: fee, Available: wallet}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE balances SET wallet = wallet - $1 WHERE user_uid = $2`,
			fee, txn.UserUID); err != nil {
			return err
		}
		wallet -= fee

		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET is_activated = TRUE, activation_date = now(),
			     activation_expiration = $1
			 WHERE uid = $2`,
			expiration, txn.UserUID); err != nil {
			return err
		}

		return insertTransaction(ctx, tx, txn)
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return wallet, nil
}
