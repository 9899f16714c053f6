package service

import (
	"context"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
)

// Notification hooks the services call after committing a state
// transition. Implemented by notify.Dispatcher; narrowed to interfaces
// here so tests can observe calls.

type VisitNotifier interface {
	VisitCheckedIn(ctx context.Context, v *domain.Visitor)
	VisitProcessed(ctx context.Context, v *domain.Visitor, status domain.VisitStatus, processedBy string, host *domain.Staff)
	VisitCheckedOut(ctx context.Context, v *domain.Visitor, at time.Time)
}

type StaffNotifier interface {
	StaffExited(ctx context.Context, s *domain.Staff, purpose string, at time.Time)
	StaffEntered(ctx context.Context, s *domain.Staff, at time.Time)
}

type OTPNotifier interface {
	OTPIssued(ctx context.Context, phone, email, userType, code string)
}
