// Package user реализует регистрацию, вход, активацию аккаунта,
// заполнение профиля и заявки KYC.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/growvest/growvest/internal/domain"
	"github.com/growvest/growvest/internal/lib/jwt"
	"github.com/growvest/growvest/internal/lib/password"
	"github.com/growvest/growvest/internal/models"
)

// ActivationFee — единоразовый активационный взнос в минорных единицах.
const ActivationFee int64 = 500000

// activationPeriod — срок действия активации аккаунта.
const activationPeriod = 365 * 24 * time.Hour

// Repository определяет методы хранилища для работы с пользователями.
type Repository interface {
	// RegisterUser сохраняет нового пользователя и открывает ему корзины.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateProfile заполняет анкету пользователя.
	UpdateProfile(ctx context.Context, userUID, firstName, lastName, phoneNumber string) error
	// UpdateKYCStatus переводит заявку KYC в новый статус.
	UpdateKYCStatus(ctx context.Context, userUID, status string) error
	// ActivateUser списывает активационный взнос и активирует аккаунт.
	ActivateUser(ctx context.Context, txn *models.Transaction, expiration time.Time) (int64, error)
}

// Service реализует бизнес-логику пользователей.
type Service struct {
	repo     Repository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создаёт нового пользователя с хэшированием пароля
// и дефолтной ролью user.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         "user",
		KYCStatus:    models.KYCNotSubmitted,
	}
	uid, err := s.repo.RegisterUser(ctx, user)
	if err != nil {
		return "", err
	}
	s.log.Info("registered user", slog.String("uid", uid))
	return uid, nil
}

// Login проверяет пароль и генерирует JWT с uid, username и role.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("invalid credentials: %w", domain.ErrForbidden)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("invalid credentials: %w", domain.ErrForbidden)
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Username, user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// Get возвращает пользователя по UID.
func (s *Service) Get(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userUID)
}

// Activate списывает активационный взнос из wallet и активирует аккаунт
// на год. Требует заполненного профиля. Возвращает wallet после списания.
func (s *Service) Activate(ctx context.Context, userUID string) (int64, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if !user.ProfileCompleted {
		return 0, fmt.Errorf("user %s: %w", userUID, domain.ErrProfileIncomplete)
	}

	txn := &models.Transaction{
		ID:          uuid.NewString(),
		UserUID:     userUID,
		Type:        models.TxnActivationFee,
		Amount:      -ActivationFee,
		Status:      models.TxnCompleted,
		Description: "Account activation fee",
	}
	wallet, err := s.repo.ActivateUser(ctx, txn, time.Now().Add(activationPeriod))
	if err != nil {
		return 0, err
	}
	s.log.Info("activated user account", slog.String("uid", userUID))
	return wallet, nil
}

// UpdateProfile заполняет анкету пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userUID, firstName, lastName, phoneNumber string) error {
	return s.repo.UpdateProfile(ctx, userUID, firstName, lastName, phoneNumber)
}

// SubmitKYC переводит заявку пользователя в статус pending.
func (s *Service) SubmitKYC(ctx context.Context, userUID string) error {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return err
	}
	if !user.ProfileCompleted {
		return fmt.Errorf("user %s: %w", userUID, domain.ErrProfileIncomplete)
	}
	if err := s.repo.UpdateKYCStatus(ctx, userUID, models.KYCPending); err != nil {
		return err
	}
	s.log.Info("submitted kyc", slog.String("uid", userUID))
	return nil
}

// ReviewKYC решает заявку KYC: approve переводит её в verified,
// всё остальное — в rejected.
func (s *Service) ReviewKYC(ctx context.Context, userUID string, approve bool) error {
	status := models.KYCRejected
	if approve {
		status = models.KYCVerified
	}
	if err := s.repo.UpdateKYCStatus(ctx, userUID, status); err != nil {
		return err
	}
	s.log.Info("reviewed kyc",
		slog.String("uid", userUID),
		slog.String("status", status))
	return nil
}

// IsActivated проверяет действующую активацию аккаунта.
func IsActivated(user *models.User) bool {
	if !user.IsActivated {
		return false
	}
	if user.ActivationExpiration != nil && time.Now().After(*user.ActivationExpiration) {
		return false
	}
	return true
}
