package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/repo/postgres"
)

// ReportService builds the principal's daily and date-range reports.
type ReportService interface {
	Daily(ctx context.Context, date string) (*domain.DailyReport, error)
	Range(ctx context.Context, fromDate, toDate string) (*domain.RangeReport, error)
}

type reportService struct {
	visitorRepo postgres.VisitorRepo
	staffRepo   postgres.StaffRepo
	now         func() time.Time
}

func NewReportService(visitorRepo postgres.VisitorRepo, staffRepo postgres.StaffRepo) ReportService {
	return &reportService{
		visitorRepo: visitorRepo,
		staffRepo:   staffRepo,
		now:         time.Now,
	}
}

func (s *reportService) Daily(ctx context.Context, date string) (*domain.DailyReport, error) {
	day := s.now()
	if date != "" {
		parsed, err := domain.ReportDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be yyyy-mm-dd", domain.ErrValidation)
		}
		day = parsed
	}

	visitors, staffLogs, err := s.collect(ctx, day, day)
	if err != nil {
		return nil, err
	}

	return &domain.DailyReport{
		Date:      day.Format("2006-01-02"),
		Visitors:  domain.ReportSection[domain.ReportVisitor]{Count: len(visitors), Data: visitors},
		StaffLogs: domain.ReportSection[domain.ReportStaffLog]{Count: len(staffLogs), Data: staffLogs},
	}, nil
}

func (s *reportService) Range(ctx context.Context, fromDate, toDate string) (*domain.RangeReport, error) {
	if fromDate == "" || toDate == "" {
		return nil, fmt.Errorf("%w: fromDate and toDate are required", domain.ErrValidation)
	}
	from, err := domain.ReportDate(fromDate)
	if err != nil {
		return nil, fmt.Errorf("%w: fromDate must be yyyy-mm-dd", domain.ErrValidation)
	}
	to, err := domain.ReportDate(toDate)
	if err != nil {
		return nil, fmt.Errorf("%w: toDate must be yyyy-mm-dd", domain.ErrValidation)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: toDate is before fromDate", domain.ErrValidation)
	}

	visitors, staffLogs, err := s.collect(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &domain.RangeReport{
		FromDate:  from.Format("2006-01-02"),
		ToDate:    to.Format("2006-01-02"),
		Visitors:  domain.ReportSection[domain.ReportVisitor]{Count: len(visitors), Data: visitors},
		StaffLogs: domain.ReportSection[domain.ReportStaffLog]{Count: len(staffLogs), Data: staffLogs},
	}, nil
}

func (s *reportService) collect(ctx context.Context, from, to time.Time) ([]domain.ReportVisitor, []domain.ReportStaffLog, error) {
	vs, err := s.visitorRepo.ListCheckedInBetween(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch visitor visits: %w", err)
	}
	ls, err := s.staffRepo.LogsBetween(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch staff logs: %w", err)
	}

	visitors := make([]domain.ReportVisitor, 0, len(vs))
	for i, v := range vs {
		visitors = append(visitors, domain.ReportVisitor{Number: i + 1, Visitor: v})
	}
	staffLogs := make([]domain.ReportStaffLog, 0, len(ls))
	for i, l := range ls {
		staffLogs = append(staffLogs, domain.ReportStaffLog{Number: i + 1, StaffLogEntry: l})
	}
	return visitors, staffLogs, nil
}
