package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/repo/postgres"
	"github.com/SahanaD8/Trackify/internal/utils"
	"github.com/SahanaD8/Trackify/pkg/config"
)

// OTPService issues and verifies one-time codes. Codes are uniformly
// random 6-digit decimals, valid for the configured TTL; several may be
// outstanding for one phone at once.
type OTPService interface {
	// Send creates a code and dispatches it (email primary, SMS fallback).
	// The code is returned so dev setups can echo it to the caller.
	Send(ctx context.Context, req *domain.SendOTPReq) (string, error)
	Verify(ctx context.Context, phone, code, userType string) (bool, error)
	CleanupExpired(ctx context.Context) (int64, error)
}

type otpService struct {
	otpRepo  postgres.OTPRepo
	notifier OTPNotifier
	cfg      *config.Config
}

func NewOTPService(otpRepo postgres.OTPRepo, notifier OTPNotifier, cfg *config.Config) OTPService {
	return &otpService{
		otpRepo:  otpRepo,
		notifier: notifier,
		cfg:      cfg,
	}
}

// generateCode draws a uniformly random code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (s *otpService) Send(ctx context.Context, req *domain.SendOTPReq) (string, error) {
	req.Phone = utils.NormalizePhone(req.Phone)
	req.Email = utils.NormalizeEmail(req.Email)

	if !utils.IsValidPhone(req.Phone) {
		return "", fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}
	if !domain.ValidUserType(req.UserType) {
		return "", fmt.Errorf("%w: invalid user type %q", domain.ErrValidation, req.UserType)
	}
	if req.Email != "" && !utils.IsValidEmail(req.Email) {
		return "", fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(s.cfg.OTP.TTL)
	if err := s.otpRepo.Insert(ctx, req.Phone, code, req.UserType, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store OTP: %w", err)
	}

	// Delivery is best-effort; the code is already committed.
	s.notifier.OTPIssued(ctx, req.Phone, req.Email, req.UserType, code)

	return code, nil
}

func (s *otpService) Verify(ctx context.Context, phone, code, userType string) (bool, error) {
	phone = utils.NormalizePhone(phone)
	if phone == "" || code == "" || !domain.ValidUserType(userType) {
		return false, fmt.Errorf("%w: phone, code and user type are required", domain.ErrValidation)
	}

	ok, err := s.otpRepo.Consume(ctx, phone, code, userType)
	if err != nil {
		return false, fmt.Errorf("failed to verify OTP: %w", err)
	}
	return ok, nil
}

func (s *otpService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.otpRepo.CleanupExpired(ctx)
}
