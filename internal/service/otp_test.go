package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/pkg/config"
)

// ---------- Mocks ----------

type otpRow struct {
	id       int64
	phone    string
	code     string
	userType string
	expires  time.Time
	verified bool
}

type mockOTPRepo struct {
	rows   []*otpRow
	nextID int64
}

func newMockOTPRepo() *mockOTPRepo { return &mockOTPRepo{nextID: 1} }

func (m *mockOTPRepo) Insert(_ context.Context, phone, code, userType string, expiresAt time.Time) error {
	m.rows = append(m.rows, &otpRow{
		id: m.nextID, phone: phone, code: code, userType: userType, expires: expiresAt,
	})
	m.nextID++
	return nil
}

func (m *mockOTPRepo) Consume(_ context.Context, phone, code, userType string) (bool, error) {
	var match *otpRow
	for _, r := range m.rows {
		if r.phone != phone || r.code != code || r.userType != userType || r.verified {
			continue
		}
		if time.Now().After(r.expires) {
			continue
		}
		if match == nil || r.id > match.id {
			match = r
		}
	}
	if match == nil {
		return false, nil
	}
	match.verified = true
	return true, nil
}

func (m *mockOTPRepo) CleanupExpired(_ context.Context) (int64, error) {
	var kept []*otpRow
	var removed int64
	for _, r := range m.rows {
		if r.verified || time.Now().After(r.expires) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return removed, nil
}

type otpNotifyRecorder struct {
	codes []string
}

func (r *otpNotifyRecorder) OTPIssued(_ context.Context, _, _, _, code string) {
	r.codes = append(r.codes, code)
}

// ---------- Tests ----------

func otpConfig(ttl time.Duration) *config.Config {
	return &config.Config{OTP: config.OTPConfig{TTL: ttl}}
}

func TestOTPSendAndVerify(t *testing.T) {
	repo := newMockOTPRepo()
	rec := &otpNotifyRecorder{}
	svc := NewOTPService(repo, rec, otpConfig(10*time.Minute))
	ctx := context.Background()

	code, err := svc.Send(ctx, &domain.SendOTPReq{
		Phone: "9000000001", Email: "ravi@example.com", UserType: domain.UserTypeVisitor,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !regexp.MustCompile(`^\d{6}$`).MatchString(code) {
		t.Fatalf("code %q is not 6 digits", code)
	}
	if len(rec.codes) != 1 || rec.codes[0] != code {
		t.Fatalf("notifier saw %v, want [%s]", rec.codes, code)
	}

	ok, err := svc.Verify(ctx, "9000000001", code, domain.UserTypeVisitor)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("fresh code rejected")
	}

	// A code verifies exactly once.
	ok, err = svc.Verify(ctx, "9000000001", code, domain.UserTypeVisitor)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if ok {
		t.Fatal("code verified twice")
	}
}

func TestOTPVerifyWrongCodeOrUserType(t *testing.T) {
	repo := newMockOTPRepo()
	svc := NewOTPService(repo, &otpNotifyRecorder{}, otpConfig(10*time.Minute))
	ctx := context.Background()

	code, err := svc.Send(ctx, &domain.SendOTPReq{Phone: "9000000001", UserType: domain.UserTypeVisitor})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if ok, _ := svc.Verify(ctx, "9000000001", "000000", domain.UserTypeVisitor); ok {
		t.Fatal("wrong code accepted")
	}
	if ok, _ := svc.Verify(ctx, "9000000001", code, domain.UserTypeStaff); ok {
		t.Fatal("code accepted for wrong user type")
	}
	if ok, _ := svc.Verify(ctx, "9000000002", code, domain.UserTypeVisitor); ok {
		t.Fatal("code accepted for wrong phone")
	}

	// The failed attempts must not burn the code.
	if ok, _ := svc.Verify(ctx, "9000000001", code, domain.UserTypeVisitor); !ok {
		t.Fatal("valid code rejected after failed attempts")
	}
}

func TestOTPExpiry(t *testing.T) {
	repo := newMockOTPRepo()
	svc := NewOTPService(repo, &otpNotifyRecorder{}, otpConfig(-time.Minute))
	ctx := context.Background()

	code, err := svc.Send(ctx, &domain.SendOTPReq{Phone: "9000000001", UserType: domain.UserTypeVisitor})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if ok, _ := svc.Verify(ctx, "9000000001", code, domain.UserTypeVisitor); ok {
		t.Fatal("expired code accepted")
	}

	removed, err := svc.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("cleanup removed %d rows, want 1", removed)
	}
}

func TestOTPSendValidation(t *testing.T) {
	svc := NewOTPService(newMockOTPRepo(), &otpNotifyRecorder{}, otpConfig(10*time.Minute))
	ctx := context.Background()

	if _, err := svc.Send(ctx, &domain.SendOTPReq{Phone: "123", UserType: domain.UserTypeVisitor}); err == nil {
		t.Fatal("short phone accepted")
	}
	if _, err := svc.Send(ctx, &domain.SendOTPReq{Phone: "9000000001", UserType: "admin"}); err == nil {
		t.Fatal("unknown user type accepted")
	}
	if _, err := svc.Send(ctx, &domain.SendOTPReq{Phone: "9000000001", Email: "not-an-email", UserType: domain.UserTypeVisitor}); err == nil {
		t.Fatal("bad email accepted")
	}
}
