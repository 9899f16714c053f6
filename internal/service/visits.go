package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/repo/postgres"
	"github.com/SahanaD8/Trackify/internal/utils"
	"github.com/SahanaD8/Trackify/pkg/logger"
)

// VisitService manages the visitor lifecycle: registration, check-in,
// the pending -> accepted/rejected approval step, and check-out.
type VisitService interface {
	Lookup(ctx context.Context, phone string) (*domain.VisitorLookup, error)
	Register(ctx context.Context, req *domain.RegisterVisitorReq) (*domain.Visitor, error)
	CheckIn(ctx context.Context, req *domain.VisitorCheckInReq) (*domain.Visitor, error)
	ProcessVisit(ctx context.Context, visitID int64, action domain.VisitAction, processedBy string) (*domain.Visitor, error)
	CheckOut(ctx context.Context, phone string) (time.Time, error)

	PendingVisits(ctx context.Context) ([]domain.Visitor, error)
	AllVisits(ctx context.Context, limit int) ([]domain.Visitor, error)
	TodayVisits(ctx context.Context) ([]domain.Visitor, error)
	ActiveVisitors(ctx context.Context) ([]domain.Visitor, error)
	Stats(ctx context.Context) (*domain.VisitStats, error)
}

type visitService struct {
	visitorRepo postgres.VisitorRepo
	staffRepo   postgres.StaffRepo
	otp         OTPService
	notifier    VisitNotifier
	now         func() time.Time
}

func NewVisitService(
	visitorRepo postgres.VisitorRepo,
	staffRepo postgres.StaffRepo,
	otp OTPService,
	notifier VisitNotifier,
) VisitService {
	return &visitService{
		visitorRepo: visitorRepo,
		staffRepo:   staffRepo,
		otp:         otp,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *visitService) Lookup(ctx context.Context, phone string) (*domain.VisitorLookup, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return nil, fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}

	v, err := s.visitorRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if v == nil {
		return &domain.VisitorLookup{}, nil
	}
	return &domain.VisitorLookup{
		Exists:         true,
		HasActiveVisit: v.HasActiveVisit(),
		Visitor:        v,
	}, nil
}

// Register is idempotent on phone number: a second registration returns
// the existing record, backfilling the email if it was missing. The OTP
// is consumed either way.
func (s *visitService) Register(ctx context.Context, req *domain.RegisterVisitorReq) (*domain.Visitor, error) {
	req.Phone = utils.NormalizePhone(req.Phone)
	req.Email = utils.NormalizeEmail(req.Email)

	if req.Name == "" || req.Place == "" || req.OTP == "" {
		return nil, fmt.Errorf("%w: name, place and otp are required", domain.ErrValidation)
	}
	if !utils.IsValidPhone(req.Phone) {
		return nil, fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}
	if !utils.IsValidEmail(req.Email) {
		return nil, fmt.Errorf("%w: valid email is required", domain.ErrValidation)
	}

	ok, err := s.otp.Verify(ctx, req.Phone, req.OTP, domain.UserTypeVisitor)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid or expired OTP", domain.ErrAuth)
	}

	existing, err := s.visitorRepo.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if existing != nil {
		if existing.Email == "" && req.Email != "" {
			if err := s.visitorRepo.BackfillEmail(ctx, existing.ID, req.Email); err != nil {
				logger.ErrorContext(ctx, "Failed to backfill visitor email", "error", err, "visitor_id", existing.ID)
			} else {
				existing.Email = req.Email
			}
		}
		return existing, nil
	}

	v, err := s.visitorRepo.Create(ctx, req.Name, req.Phone, req.Email, req.Place, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to register visitor: %w", err)
	}
	return v, nil
}

// CheckIn overwrites any prior visit data and moves the visit to
// pending. Overwriting a pending or active visit is allowed; Lookup
// exposes HasActiveVisit so front-ends can warn first.
func (s *visitService) CheckIn(ctx context.Context, req *domain.VisitorCheckInReq) (*domain.Visitor, error) {
	req.Phone = utils.NormalizePhone(req.Phone)
	if req.Purpose == "" || req.WhomToMeet == "" {
		return nil, fmt.Errorf("%w: purpose and whom to meet are required", domain.ErrValidation)
	}
	if !utils.IsValidPhone(req.Phone) {
		return nil, fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}

	v, err := s.visitorRepo.FindByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("failed to look up visitor: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: visitor not registered", domain.ErrNotFound)
	}

	checkIn := s.now()
	if err := s.visitorRepo.SetCheckIn(ctx, v.ID, req.Purpose, req.WhomToMeet, checkIn); err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	status := domain.VisitPending
	v.Purpose = req.Purpose
	v.WhomToMeet = req.WhomToMeet
	v.CheckInTime = &checkIn
	v.CheckOutTime = nil
	v.ApprovedAt = nil
	v.Status = &status

	s.notifier.VisitCheckedIn(ctx, v)
	return v, nil
}

// ProcessVisit resolves a pending visit to accepted or rejected. A visit
// can only be processed once; reprocessing fails rather than silently
// succeeding.
func (s *visitService) ProcessVisit(ctx context.Context, visitID int64, action domain.VisitAction, processedBy string) (*domain.Visitor, error) {
	if action != domain.ActionAccept && action != domain.ActionReject {
		return nil, fmt.Errorf("%w: action must be accept or reject", domain.ErrValidation)
	}
	if processedBy == "" {
		processedBy = "Receptionist"
	}

	v, err := s.visitorRepo.GetByID(ctx, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch visit: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: visit not found", domain.ErrNotFound)
	}

	status := domain.VisitRejected
	if action == domain.ActionAccept {
		status = domain.VisitAccepted
	}

	approvedAt := s.now()
	updated, err := s.visitorRepo.SetStatusIfPending(ctx, visitID, status, approvedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to process visit: %w", err)
	}
	if !updated {
		return nil, fmt.Errorf("%w: visit is not pending", domain.ErrConflict)
	}

	v.Status = &status
	v.ApprovedAt = &approvedAt

	// Host resolution is informational only; a miss doesn't fail the
	// approval.
	var host *domain.Staff
	if status == domain.VisitAccepted && v.WhomToMeet != "" {
		host, err = s.staffRepo.FindByNameOrID(ctx, v.WhomToMeet)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to resolve whom_to_meet", "error", err, "visit_id", visitID)
			host = nil
		}
	}

	s.notifier.VisitProcessed(ctx, v, status, processedBy, host)
	return v, nil
}

// CheckOut stamps check_out_time on the visitor's active visit. It is
// the one strictly guarded transition: without an accepted, not-yet-
// checked-out visit it fails, so a second check-out in a row fails too.
func (s *visitService) CheckOut(ctx context.Context, phone string) (time.Time, error) {
	phone = utils.NormalizePhone(phone)
	if !utils.IsValidPhone(phone) {
		return time.Time{}, fmt.Errorf("%w: valid phone number is required", domain.ErrValidation)
	}

	v, err := s.visitorRepo.FindByPhone(ctx, phone)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to look up visitor: %w", err)
	}

	outTime := s.now()
	ok, err := s.visitorRepo.CheckOutActive(ctx, phone, outTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to check out: %w", err)
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: no active visit found for check-out", domain.ErrNotFound)
	}

	if v != nil {
		s.notifier.VisitCheckedOut(ctx, v, outTime)
	}
	return outTime, nil
}

func (s *visitService) PendingVisits(ctx context.Context) ([]domain.Visitor, error) {
	return s.visitorRepo.ListPending(ctx)
}

func (s *visitService) AllVisits(ctx context.Context, limit int) ([]domain.Visitor, error) {
	return s.visitorRepo.ListAll(ctx, limit)
}

func (s *visitService) TodayVisits(ctx context.Context) ([]domain.Visitor, error) {
	return s.visitorRepo.ListCheckedInOn(ctx, s.now())
}

func (s *visitService) ActiveVisitors(ctx context.Context) ([]domain.Visitor, error) {
	return s.visitorRepo.ListActiveOn(ctx, s.now())
}

func (s *visitService) Stats(ctx context.Context) (*domain.VisitStats, error) {
	return s.visitorRepo.StatsOn(ctx, s.now())
}
