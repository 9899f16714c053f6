package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
)

func TestDailyReportDefaultsToToday(t *testing.T) {
	vRepo := newMockVisitorRepo()
	sRepo := newMockStaffRepo(testStaff())
	ctx := context.Background()

	v, _ := vRepo.Create(ctx, "Ravi", "9000000001", "ravi@example.com", "Mysore", "tok")
	_ = vRepo.SetCheckIn(ctx, v.ID, "admission", "Asha Rao", time.Now())
	_, _ = sRepo.InsertExit(ctx, 1, "bank", time.Now())

	svc := NewReportService(vRepo, sRepo)
	report, err := svc.Daily(ctx, "")
	if err != nil {
		t.Fatalf("daily: %v", err)
	}
	if report.Date != time.Now().Format("2006-01-02") {
		t.Fatalf("date %q is not today", report.Date)
	}
	if report.Visitors.Count != 1 || report.StaffLogs.Count != 1 {
		t.Fatalf("counts: visitors=%d staffLogs=%d", report.Visitors.Count, report.StaffLogs.Count)
	}
	if report.Visitors.Data[0].Number != 1 {
		t.Fatalf("visitor row not numbered: %+v", report.Visitors.Data[0])
	}

	if _, err := svc.Daily(ctx, "31-01-2025"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad date: want ErrValidation, got %v", err)
	}
}

func TestRangeReportValidation(t *testing.T) {
	svc := NewReportService(newMockVisitorRepo(), newMockStaffRepo())
	ctx := context.Background()

	if _, err := svc.Range(ctx, "", "2025-01-31"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("missing fromDate: want ErrValidation, got %v", err)
	}
	if _, err := svc.Range(ctx, "2025-02-01", "2025-01-31"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("inverted range: want ErrValidation, got %v", err)
	}

	report, err := svc.Range(ctx, "2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if report.Visitors.Count != 0 || len(report.Visitors.Data) != 0 {
		t.Fatalf("empty range not empty: %+v", report.Visitors)
	}
}
