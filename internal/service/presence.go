package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/repo/postgres"
	"github.com/SahanaD8/Trackify/internal/utils"
)

// PresenceService derives INSIDE/OUTSIDE status for staff from their
// outing log and records exits and returns. Staff with no open outing
// are inside; an open outing (exit recorded, no entry yet) means
// outside.
type PresenceService interface {
	Lookup(ctx context.Context, phone string) (*domain.Staff, error)
	Status(ctx context.Context, phone string) (*domain.StaffStatus, error)
	RecordExit(ctx context.Context, phone, purpose string) (*domain.EntryLog, *domain.Staff, error)
	RecordEntry(ctx context.Context, phone string) (*domain.EntryLog, *domain.Staff, error)
	Logs(ctx context.Context, phone string) ([]domain.EntryLog, *domain.Staff, error)
	List(ctx context.Context) ([]domain.Staff, error)

	TodayLogs(ctx context.Context) ([]domain.StaffLogEntry, error)
	TodayMovements(ctx context.Context) (exits, entries int, err error)
}

type presenceService struct {
	staffRepo postgres.StaffRepo
	notifier  StaffNotifier
	now       func() time.Time
}

func NewPresenceService(staffRepo postgres.StaffRepo, notifier StaffNotifier) PresenceService {
	return &presenceService{
		staffRepo: staffRepo,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *presenceService) findStaff(ctx context.Context, phone string) (*domain.Staff, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return nil, fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}
	st, err := s.staffRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up staff: %w", err)
	}
	if st == nil {
		return nil, fmt.Errorf("%w: no staff with this phone number", domain.ErrNotFound)
	}
	return st, nil
}

func (s *presenceService) Lookup(ctx context.Context, phone string) (*domain.Staff, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return nil, fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}
	st, err := s.staffRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up staff: %w", err)
	}
	return st, nil
}

func (s *presenceService) Status(ctx context.Context, phone string) (*domain.StaffStatus, error) {
	st, err := s.findStaff(ctx, phone)
	if err != nil {
		return nil, err
	}

	open, err := s.staffRepo.OpenOuting(ctx, st.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check open outing: %w", err)
	}

	return &domain.StaffStatus{IsInside: open == nil, Staff: st}, nil
}

func (s *presenceService) RecordExit(ctx context.Context, phone, purpose string) (*domain.EntryLog, *domain.Staff, error) {
	if purpose == "" {
		return nil, nil, fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	}
	st, err := s.findStaff(ctx, phone)
	if err != nil {
		return nil, nil, err
	}

	// Exit is only valid while inside. This closes the window where a
	// second exit would leave two open outings behind.
	open, err := s.staffRepo.OpenOuting(ctx, st.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check open outing: %w", err)
	}
	if open != nil {
		return nil, nil, fmt.Errorf("%w: already outside, record entry first", domain.ErrConflict)
	}

	exitTime := s.now()
	log, err := s.staffRepo.InsertExit(ctx, st.ID, purpose, exitTime)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record exit: %w", err)
	}

	s.notifier.StaffExited(ctx, st, purpose, exitTime)
	return log, st, nil
}

func (s *presenceService) RecordEntry(ctx context.Context, phone string) (*domain.EntryLog, *domain.Staff, error) {
	st, err := s.findStaff(ctx, phone)
	if err != nil {
		return nil, nil, err
	}

	// Entry without a prior exit is not a meaningful outing, so it fails
	// instead of inserting a bare entry row. Repeating the call while
	// inside fails the same way.
	open, err := s.staffRepo.OpenOuting(ctx, st.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check open outing: %w", err)
	}
	if open == nil {
		return nil, nil, fmt.Errorf("%w: no exit record found, record exit first", domain.ErrConflict)
	}

	entryTime := s.now()
	closed, err := s.staffRepo.CloseOuting(ctx, open.ID, entryTime)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record entry: %w", err)
	}
	if !closed {
		return nil, nil, fmt.Errorf("%w: outing already closed", domain.ErrConflict)
	}

	open.EntryTime = &entryTime
	s.notifier.StaffEntered(ctx, st, entryTime)
	return open, st, nil
}

func (s *presenceService) Logs(ctx context.Context, phone string) ([]domain.EntryLog, *domain.Staff, error) {
	st, err := s.findStaff(ctx, phone)
	if err != nil {
		return nil, nil, err
	}

	logs, err := s.staffRepo.LogsByStaff(ctx, st.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch staff logs: %w", err)
	}
	return logs, st, nil
}

func (s *presenceService) List(ctx context.Context) ([]domain.Staff, error) {
	return s.staffRepo.List(ctx)
}

func (s *presenceService) TodayLogs(ctx context.Context) ([]domain.StaffLogEntry, error) {
	logs, err := s.staffRepo.LogsOn(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch today's staff logs: %w", err)
	}
	return logs, nil
}

func (s *presenceService) TodayMovements(ctx context.Context) (int, int, error) {
	exits, entries, err := s.staffRepo.MovementCountsOn(ctx, s.now())
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count staff movements: %w", err)
	}
	return exits, entries, nil
}
