package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/repo/postgres"
	"github.com/SahanaD8/Trackify/internal/utils"
	"github.com/SahanaD8/Trackify/pkg/auth"
	"github.com/SahanaD8/Trackify/pkg/config"
	"github.com/SahanaD8/Trackify/pkg/logger"
)

// AuthService authenticates the desk roles (receptionist, security,
// principal) with phone + password and issues role-scoped tokens.
type AuthService interface {
	Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error)
	Logout(ctx context.Context, req *domain.LogoutReq) error
}

type authService struct {
	accountRepo postgres.AccountRepo
	cfg         *config.Config
}

func NewAuthService(accountRepo postgres.AccountRepo, cfg *config.Config) AuthService {
	return &authService{accountRepo: accountRepo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req *domain.LoginReq) (*domain.LoginRes, error) {
	req.Phone = utils.NormalizePhone(req.Phone)
	if req.Phone == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: phone number and password are required", domain.ErrValidation)
	}
	if !domain.ValidRole(req.UserType) {
		return nil, fmt.Errorf("%w: invalid user type %q", domain.ErrValidation, req.UserType)
	}

	acct, err := s.accountRepo.FindByPhoneRole(ctx, req.Phone, req.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if acct == nil {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrAuth)
	}

	ok, err := argon2id.ComparePasswordAndHash(req.Password, acct.PasswordHash)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: invalid credentials", domain.ErrAuth)
	}

	now := time.Now()
	if err := s.accountRepo.MarkLoggedIn(ctx, acct.ID, now); err != nil {
		logger.ErrorContext(ctx, "Failed to mark account logged in", "error", err, "account_id", acct.ID)
	}
	acct.IsLoggedIn = true
	acct.LastLogin = &now

	token, err := auth.NewAccessToken(acct.ID, acct.Phone, acct.Role, s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &domain.LoginRes{Token: token, User: acct}, nil
}

func (s *authService) Logout(ctx context.Context, req *domain.LogoutReq) error {
	req.Phone = utils.NormalizePhone(req.Phone)
	if req.Phone == "" || !domain.ValidRole(req.UserType) {
		return fmt.Errorf("%w: phone number and user type are required", domain.ErrValidation)
	}
	if err := s.accountRepo.MarkLoggedOut(ctx, req.Phone, req.UserType); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}
