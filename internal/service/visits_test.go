package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
)

// ---------- Mocks ----------

type mockVisitorRepo struct {
	visitors map[int64]*domain.Visitor
	nextID   int64
}

func newMockVisitorRepo() *mockVisitorRepo {
	return &mockVisitorRepo{visitors: make(map[int64]*domain.Visitor), nextID: 1}
}

func (m *mockVisitorRepo) FindByPhone(_ context.Context, phone string) (*domain.Visitor, error) {
	for _, v := range m.visitors {
		if v.Phone == phone {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockVisitorRepo) GetByID(_ context.Context, id int64) (*domain.Visitor, error) {
	v, ok := m.visitors[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (m *mockVisitorRepo) Create(_ context.Context, name, phone, email, place, badgeToken string) (*domain.Visitor, error) {
	v := &domain.Visitor{
		ID: m.nextID, Name: name, Phone: phone, Email: email,
		Place: place, BadgeToken: badgeToken, CreatedAt: time.Now(),
	}
	m.nextID++
	m.visitors[v.ID] = v
	cp := *v
	return &cp, nil
}

func (m *mockVisitorRepo) BackfillEmail(_ context.Context, id int64, email string) error {
	if v, ok := m.visitors[id]; ok && v.Email == "" {
		v.Email = email
	}
	return nil
}

func (m *mockVisitorRepo) SetCheckIn(_ context.Context, id int64, purpose, whomToMeet string, checkIn time.Time) error {
	v, ok := m.visitors[id]
	if !ok {
		return errors.New("no such visitor")
	}
	status := domain.VisitPending
	t := checkIn
	v.Purpose = purpose
	v.WhomToMeet = whomToMeet
	v.CheckInTime = &t
	v.CheckOutTime = nil
	v.ApprovedAt = nil
	v.Status = &status
	return nil
}

func (m *mockVisitorRepo) SetStatusIfPending(_ context.Context, id int64, status domain.VisitStatus, approvedAt time.Time) (bool, error) {
	v, ok := m.visitors[id]
	if !ok || v.Status == nil || *v.Status != domain.VisitPending {
		return false, nil
	}
	st, at := status, approvedAt
	v.Status = &st
	v.ApprovedAt = &at
	return true, nil
}

func (m *mockVisitorRepo) CheckOutActive(_ context.Context, phone string, checkOut time.Time) (bool, error) {
	for _, v := range m.visitors {
		if v.Phone != phone || v.Status == nil || *v.Status != domain.VisitAccepted || v.CheckOutTime != nil {
			continue
		}
		t := checkOut
		v.CheckOutTime = &t
		return true, nil
	}
	return false, nil
}

func (m *mockVisitorRepo) ListAll(_ context.Context, limit int) ([]domain.Visitor, error) {
	var out []domain.Visitor
	for _, v := range m.visitors {
		out = append(out, *v)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockVisitorRepo) ListPending(_ context.Context) ([]domain.Visitor, error) {
	var out []domain.Visitor
	for _, v := range m.visitors {
		if v.Status != nil && *v.Status == domain.VisitPending {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockVisitorRepo) ListCheckedInOn(_ context.Context, day time.Time) ([]domain.Visitor, error) {
	var out []domain.Visitor
	for _, v := range m.visitors {
		if v.CheckInTime != nil && sameDay(*v.CheckInTime, day) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockVisitorRepo) ListCheckedInBetween(_ context.Context, from, to time.Time) ([]domain.Visitor, error) {
	var out []domain.Visitor
	for _, v := range m.visitors {
		if v.CheckInTime != nil && !dayOf(*v.CheckInTime).Before(dayOf(from)) && !dayOf(*v.CheckInTime).After(dayOf(to)) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockVisitorRepo) ListActiveOn(_ context.Context, day time.Time) ([]domain.Visitor, error) {
	var out []domain.Visitor
	for _, v := range m.visitors {
		if v.CheckInTime != nil && sameDay(*v.CheckInTime, day) &&
			v.Status != nil && *v.Status == domain.VisitAccepted && v.CheckOutTime == nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockVisitorRepo) StatsOn(_ context.Context, day time.Time) (*domain.VisitStats, error) {
	stats := &domain.VisitStats{}
	for _, v := range m.visitors {
		if v.CheckInTime == nil || !sameDay(*v.CheckInTime, day) {
			continue
		}
		stats.TotalVisits++
		if v.Status == nil {
			continue
		}
		switch *v.Status {
		case domain.VisitPending:
			stats.Pending++
		case domain.VisitAccepted:
			stats.Accepted++
			if v.CheckOutTime == nil {
				stats.CurrentlyInside++
			}
		case domain.VisitRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

type stubOTPService struct {
	valid string
	used  bool
}

func (s *stubOTPService) Send(context.Context, *domain.SendOTPReq) (string, error) {
	return s.valid, nil
}

func (s *stubOTPService) Verify(_ context.Context, _, code, _ string) (bool, error) {
	if s.used || code != s.valid {
		return false, nil
	}
	s.used = true
	return true, nil
}

func (s *stubOTPService) CleanupExpired(context.Context) (int64, error) { return 0, nil }

type visitNotifyRecorder struct {
	checkedIn  int
	processed  int
	checkedOut int
	lastStatus domain.VisitStatus
	lastHost   *domain.Staff
}

func (r *visitNotifyRecorder) VisitCheckedIn(context.Context, *domain.Visitor) { r.checkedIn++ }

func (r *visitNotifyRecorder) VisitProcessed(_ context.Context, _ *domain.Visitor, status domain.VisitStatus, _ string, host *domain.Staff) {
	r.processed++
	r.lastStatus = status
	r.lastHost = host
}

func (r *visitNotifyRecorder) VisitCheckedOut(context.Context, *domain.Visitor, time.Time) {
	r.checkedOut++
}

// ---------- Tests ----------

func newVisitFixture(otp string) (VisitService, *mockVisitorRepo, *visitNotifyRecorder) {
	repo := newMockVisitorRepo()
	rec := &visitNotifyRecorder{}
	svc := NewVisitService(repo, newMockStaffRepo(testStaff()), &stubOTPService{valid: otp}, rec)
	return svc, repo, rec
}

func TestRegisterRequiresValidOTP(t *testing.T) {
	svc, _, _ := newVisitFixture("123456")

	_, err := svc.Register(context.Background(), &domain.RegisterVisitorReq{
		Name: "Ravi", Phone: "9000000001", Email: "ravi@example.com", Place: "Mysore", OTP: "999999",
	})
	if !errors.Is(err, domain.ErrAuth) {
		t.Fatalf("want ErrAuth, got %v", err)
	}
}

func TestRegisterIdempotentWithEmailBackfill(t *testing.T) {
	repo := newMockVisitorRepo()
	first, _ := repo.Create(context.Background(), "Ravi", "9000000001", "", "Mysore", "tok")

	svc := NewVisitService(repo, newMockStaffRepo(), &stubOTPService{valid: "123456"}, &visitNotifyRecorder{})
	got, err := svc.Register(context.Background(), &domain.RegisterVisitorReq{
		Name: "Ravi", Phone: "90000 00001", Email: "Ravi@Example.com", Place: "Mysore", OTP: "123456",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got.ID != first.ID {
		t.Fatalf("want existing visitor %d, got %d", first.ID, got.ID)
	}
	if got.Email != "ravi@example.com" {
		t.Fatalf("email not backfilled: %q", got.Email)
	}
}

func TestCheckInUnregisteredVisitor(t *testing.T) {
	svc, _, _ := newVisitFixture("123456")

	_, err := svc.CheckIn(context.Background(), &domain.VisitorCheckInReq{
		Phone: "9000000009", Purpose: "admission", WhomToMeet: "Asha Rao",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestProcessVisitOnlyOnce(t *testing.T) {
	svc, repo, rec := newVisitFixture("123456")
	ctx := context.Background()

	v, _ := repo.Create(ctx, "Ravi", "9000000001", "ravi@example.com", "Mysore", "tok")
	if _, err := svc.CheckIn(ctx, &domain.VisitorCheckInReq{
		Phone: "9000000001", Purpose: "admission", WhomToMeet: "Asha Rao",
	}); err != nil {
		t.Fatalf("check in: %v", err)
	}

	got, err := svc.ProcessVisit(ctx, v.ID, domain.ActionAccept, "front desk")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if got.Status == nil || *got.Status != domain.VisitAccepted || got.ApprovedAt == nil {
		t.Fatalf("unexpected visit after accept: %+v", got)
	}
	if rec.lastStatus != domain.VisitAccepted {
		t.Fatalf("notifier saw status %q", rec.lastStatus)
	}
	if rec.lastHost == nil || rec.lastHost.Name != "Asha Rao" {
		t.Fatalf("host not resolved: %+v", rec.lastHost)
	}

	if _, err := svc.ProcessVisit(ctx, v.ID, domain.ActionReject, "front desk"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second process: want ErrConflict, got %v", err)
	}
}

func TestProcessVisitValidation(t *testing.T) {
	svc, _, _ := newVisitFixture("123456")
	ctx := context.Background()

	if _, err := svc.ProcessVisit(ctx, 1, domain.VisitAction("approve"), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad action: want ErrValidation, got %v", err)
	}
	if _, err := svc.ProcessVisit(ctx, 42, domain.ActionAccept, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing visit: want ErrNotFound, got %v", err)
	}
}

func TestCheckOutRequiresActiveVisit(t *testing.T) {
	svc, repo, rec := newVisitFixture("123456")
	ctx := context.Background()

	v, _ := repo.Create(ctx, "Ravi", "9000000001", "ravi@example.com", "Mysore", "tok")

	// Not checked in yet.
	if _, err := svc.CheckOut(ctx, "9000000001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	if _, err := svc.CheckIn(ctx, &domain.VisitorCheckInReq{
		Phone: "9000000001", Purpose: "admission", WhomToMeet: "Asha Rao",
	}); err != nil {
		t.Fatalf("check in: %v", err)
	}

	// Pending visits cannot check out either.
	if _, err := svc.CheckOut(ctx, "9000000001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("pending checkout: want ErrNotFound, got %v", err)
	}

	if _, err := svc.ProcessVisit(ctx, v.ID, domain.ActionAccept, ""); err != nil {
		t.Fatalf("process: %v", err)
	}

	if _, err := svc.CheckOut(ctx, "9000000001"); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if rec.checkedOut != 1 {
		t.Fatalf("checkout notification count: %d", rec.checkedOut)
	}

	// Second checkout in a row fails.
	if _, err := svc.CheckOut(ctx, "9000000001"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double checkout: want ErrNotFound, got %v", err)
	}
}

func TestLookupReportsActiveVisit(t *testing.T) {
	svc, repo, _ := newVisitFixture("123456")
	ctx := context.Background()

	lookup, err := svc.Lookup(ctx, "9000000001")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if lookup.Exists {
		t.Fatal("unregistered phone reported as existing")
	}

	v, _ := repo.Create(ctx, "Ravi", "9000000001", "ravi@example.com", "Mysore", "tok")
	if _, err := svc.CheckIn(ctx, &domain.VisitorCheckInReq{
		Phone: "9000000001", Purpose: "admission", WhomToMeet: "Asha Rao",
	}); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := svc.ProcessVisit(ctx, v.ID, domain.ActionAccept, ""); err != nil {
		t.Fatalf("process: %v", err)
	}

	lookup, err = svc.Lookup(ctx, "9000000001")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !lookup.Exists || !lookup.HasActiveVisit {
		t.Fatalf("want active visit, got %+v", lookup)
	}
}
