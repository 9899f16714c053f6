package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
)

// ---------- Mocks ----------

type mockStaffRepo struct {
	staff  map[int64]*domain.Staff
	logs   []*domain.EntryLog
	nextID int64
}

func newMockStaffRepo(staff ...*domain.Staff) *mockStaffRepo {
	m := &mockStaffRepo{staff: make(map[int64]*domain.Staff), nextID: 1}
	for _, s := range staff {
		m.staff[s.ID] = s
	}
	return m
}

func (m *mockStaffRepo) FindByPhone(_ context.Context, phone string) (*domain.Staff, error) {
	for _, s := range m.staff {
		if s.Phone == phone {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockStaffRepo) GetByID(_ context.Context, id int64) (*domain.Staff, error) {
	return m.staff[id], nil
}

func (m *mockStaffRepo) FindByNameOrID(_ context.Context, nameOrID string) (*domain.Staff, error) {
	for _, s := range m.staff {
		if s.Name == nameOrID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockStaffRepo) List(_ context.Context) ([]domain.Staff, error) {
	out := make([]domain.Staff, 0, len(m.staff))
	for _, s := range m.staff {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStaffRepo) OpenOuting(_ context.Context, staffID int64) (*domain.EntryLog, error) {
	var open *domain.EntryLog
	for _, l := range m.logs {
		if l.StaffID != staffID || l.EntryTime != nil {
			continue
		}
		if open == nil || l.ExitTime.After(open.ExitTime) || (l.ExitTime.Equal(open.ExitTime) && l.ID > open.ID) {
			open = l
		}
	}
	if open == nil {
		return nil, nil
	}
	cp := *open
	return &cp, nil
}

func (m *mockStaffRepo) InsertExit(_ context.Context, staffID int64, purpose string, exitTime time.Time) (*domain.EntryLog, error) {
	l := &domain.EntryLog{
		ID:        m.nextID,
		StaffID:   staffID,
		Purpose:   purpose,
		ExitTime:  exitTime,
		CreatedAt: exitTime,
	}
	m.nextID++
	m.logs = append(m.logs, l)
	cp := *l
	return &cp, nil
}

func (m *mockStaffRepo) CloseOuting(_ context.Context, logID int64, entryTime time.Time) (bool, error) {
	for _, l := range m.logs {
		if l.ID == logID {
			if l.EntryTime != nil {
				return false, nil
			}
			t := entryTime
			l.EntryTime = &t
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStaffRepo) LogsByStaff(_ context.Context, staffID int64) ([]domain.EntryLog, error) {
	var out []domain.EntryLog
	for _, l := range m.logs {
		if l.StaffID == staffID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockStaffRepo) LogsOn(_ context.Context, day time.Time) ([]domain.StaffLogEntry, error) {
	var out []domain.StaffLogEntry
	for _, l := range m.logs {
		if sameDay(l.ExitTime, day) {
			out = append(out, domain.StaffLogEntry{EntryLog: *l, StaffName: m.staff[l.StaffID].Name})
		}
	}
	return out, nil
}

func (m *mockStaffRepo) LogsBetween(_ context.Context, from, to time.Time) ([]domain.StaffLogEntry, error) {
	var out []domain.StaffLogEntry
	for _, l := range m.logs {
		if !dayOf(l.ExitTime).Before(dayOf(from)) && !dayOf(l.ExitTime).After(dayOf(to)) {
			out = append(out, domain.StaffLogEntry{EntryLog: *l, StaffName: m.staff[l.StaffID].Name})
		}
	}
	return out, nil
}

func (m *mockStaffRepo) MovementCountsOn(_ context.Context, day time.Time) (int, int, error) {
	exits, entries := 0, 0
	for _, l := range m.logs {
		if sameDay(l.ExitTime, day) {
			exits++
		}
		if l.EntryTime != nil && sameDay(*l.EntryTime, day) {
			entries++
		}
	}
	return exits, entries, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type staffNotifyRecorder struct {
	exits   int
	entries int
}

func (r *staffNotifyRecorder) StaffExited(context.Context, *domain.Staff, string, time.Time) {
	r.exits++
}

func (r *staffNotifyRecorder) StaffEntered(context.Context, *domain.Staff, time.Time) {
	r.entries++
}

// ---------- Tests ----------

func testStaff() *domain.Staff {
	return &domain.Staff{ID: 1, Name: "Asha Rao", Phone: "9876543210", Department: "Science"}
}

func TestPresenceExitEntryCycle(t *testing.T) {
	repo := newMockStaffRepo(testStaff())
	rec := &staffNotifyRecorder{}
	svc := NewPresenceService(repo, rec)
	ctx := context.Background()

	status, err := svc.Status(ctx, "9876543210")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.IsInside {
		t.Fatal("staff with no logs should be inside")
	}

	log, st, err := svc.RecordExit(ctx, "9876543210", "lunch")
	if err != nil {
		t.Fatalf("record exit: %v", err)
	}
	if st.ID != 1 || log.Purpose != "lunch" || log.EntryTime != nil {
		t.Fatalf("unexpected exit log: %+v", log)
	}

	status, _ = svc.Status(ctx, "9876543210")
	if status.IsInside {
		t.Fatal("staff should be outside after exit")
	}

	closed, _, err := svc.RecordEntry(ctx, "9876543210")
	if err != nil {
		t.Fatalf("record entry: %v", err)
	}
	if closed.EntryTime == nil {
		t.Fatal("entry time not stamped")
	}
	if closed.EntryTime.Before(closed.ExitTime) {
		t.Fatal("entry time precedes exit time")
	}

	status, _ = svc.Status(ctx, "9876543210")
	if !status.IsInside {
		t.Fatal("staff should be inside after entry")
	}

	// Repeating the entry while inside fails the same way as entry with
	// no prior exit.
	if _, _, err := svc.RecordEntry(ctx, "9876543210"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("repeat entry: want ErrConflict, got %v", err)
	}

	if rec.exits != 1 || rec.entries != 1 {
		t.Fatalf("notifications: got %d exits, %d entries", rec.exits, rec.entries)
	}
}

func TestPresenceDoubleExitRejected(t *testing.T) {
	repo := newMockStaffRepo(testStaff())
	svc := NewPresenceService(repo, &staffNotifyRecorder{})
	ctx := context.Background()

	if _, _, err := svc.RecordExit(ctx, "9876543210", "errand"); err != nil {
		t.Fatalf("first exit: %v", err)
	}
	_, _, err := svc.RecordExit(ctx, "9876543210", "errand again")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second exit: want ErrConflict, got %v", err)
	}
}

func TestPresenceEntryWithoutExitRejected(t *testing.T) {
	repo := newMockStaffRepo(testStaff())
	svc := NewPresenceService(repo, &staffNotifyRecorder{})

	_, _, err := svc.RecordEntry(context.Background(), "9876543210")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestPresenceUnknownPhone(t *testing.T) {
	repo := newMockStaffRepo(testStaff())
	svc := NewPresenceService(repo, &staffNotifyRecorder{})
	ctx := context.Background()

	if _, err := svc.Status(ctx, "1112223334"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("status: want ErrNotFound, got %v", err)
	}

	// Lookup is a soft check and reports absence with a nil staff.
	st, err := svc.Lookup(ctx, "1112223334")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if st != nil {
		t.Fatalf("lookup: want nil staff, got %+v", st)
	}
}

func TestPresenceLogsAndMovements(t *testing.T) {
	repo := newMockStaffRepo(testStaff())
	svc := NewPresenceService(repo, &staffNotifyRecorder{})
	ctx := context.Background()

	if _, _, err := svc.RecordExit(ctx, "9876543210", "meeting"); err != nil {
		t.Fatalf("exit: %v", err)
	}
	if _, _, err := svc.RecordEntry(ctx, "9876543210"); err != nil {
		t.Fatalf("entry: %v", err)
	}
	if _, _, err := svc.RecordExit(ctx, "9876543210", "bank"); err != nil {
		t.Fatalf("second exit: %v", err)
	}

	logs, st, err := svc.Logs(ctx, "987-654-3210")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if st.ID != 1 || len(logs) != 2 {
		t.Fatalf("want 2 logs for staff 1, got %d", len(logs))
	}

	exits, entries, err := svc.TodayMovements(ctx)
	if err != nil {
		t.Fatalf("movements: %v", err)
	}
	if exits != 2 || entries != 1 {
		t.Fatalf("want 2 exits and 1 entry today, got %d/%d", exits, entries)
	}
}
