package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/pkg/auth"
	"github.com/SahanaD8/Trackify/pkg/config"
)

type mockAccountRepo struct {
	accounts  []*domain.Account
	loggedOut int
}

func (m *mockAccountRepo) FindByPhoneRole(_ context.Context, phone, role string) (*domain.Account, error) {
	for _, a := range m.accounts {
		if a.Phone == phone && a.Role == role {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) MarkLoggedIn(_ context.Context, id int64, at time.Time) error {
	for _, a := range m.accounts {
		if a.ID == id {
			a.IsLoggedIn = true
			t := at
			a.LastLogin = &t
		}
	}
	return nil
}

func (m *mockAccountRepo) MarkLoggedOut(_ context.Context, phone, role string) error {
	m.loggedOut++
	for _, a := range m.accounts {
		if a.Phone == phone && a.Role == role {
			a.IsLoggedIn = false
		}
	}
	return nil
}

func authConfig() *config.Config {
	return &config.Config{Auth: config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}}
}

func TestLoginIssuesRoleToken(t *testing.T) {
	hash, err := argon2id.CreateHash("letmein", argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &mockAccountRepo{accounts: []*domain.Account{{
		ID: 7, Name: "Front Desk", Phone: "9111111111",
		Role: domain.RoleReceptionist, PasswordHash: hash,
	}}}
	svc := NewAuthService(repo, authConfig())

	res, err := svc.Login(context.Background(), &domain.LoginReq{
		Phone: "9111111111", Password: "letmein", UserType: domain.RoleReceptionist,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.User.ID != 7 || !res.User.IsLoggedIn {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	claims, err := auth.Parse(res.Token, "test-secret")
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Sub != 7 || claims.Role != domain.RoleReceptionist {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	hash, _ := argon2id.CreateHash("letmein", argon2id.DefaultParams)
	repo := &mockAccountRepo{accounts: []*domain.Account{{
		ID: 7, Phone: "9111111111", Role: domain.RoleReceptionist, PasswordHash: hash,
	}}}
	svc := NewAuthService(repo, authConfig())
	ctx := context.Background()

	_, err := svc.Login(ctx, &domain.LoginReq{
		Phone: "9111111111", Password: "wrong", UserType: domain.RoleReceptionist,
	})
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("wrong password: want ErrAuth, got %v", err)
	}

	// Same phone, different role: desk accounts are per-role.
	_, err = svc.Login(ctx, &domain.LoginReq{
		Phone: "9111111111", Password: "letmein", UserType: domain.RoleSecurity,
	})
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("wrong role: want ErrAuth, got %v", err)
	}

	_, err = svc.Login(ctx, &domain.LoginReq{
		Phone: "9111111111", Password: "letmein", UserType: "teacher",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown role: want ErrValidation, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	repo := &mockAccountRepo{accounts: []*domain.Account{{
		ID: 7, Phone: "9111111111", Role: domain.RoleReceptionist, IsLoggedIn: true,
	}}}
	svc := NewAuthService(repo, authConfig())
	ctx := context.Background()

	if err := svc.Logout(ctx, &domain.LogoutReq{Phone: "9111111111", UserType: domain.RoleReceptionist}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if repo.loggedOut != 1 || repo.accounts[0].IsLoggedIn {
		t.Fatal("account not marked logged out")
	}

	if err := svc.Logout(ctx, &domain.LogoutReq{Phone: "", UserType: domain.RoleReceptionist}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty phone: want ErrValidation, got %v", err)
	}
}
