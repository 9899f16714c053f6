package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/SahanaD8/Trackify/internal/domain"
	"github.com/SahanaD8/Trackify/internal/platform/mailer"
	"github.com/SahanaD8/Trackify/internal/platform/sms"
	"github.com/SahanaD8/Trackify/pkg/events"
	"github.com/SahanaD8/Trackify/pkg/logger"
)

// Dispatcher fans a committed state transition out to email, SMS and the
// event bus. Every delivery is best-effort: failures are logged and never
// surface to the caller, so a notification problem cannot roll back a
// transition that already happened.
type Dispatcher struct {
	mailer mailer.Service
	sms    sms.Sender
	bus    events.Publisher
}

func NewDispatcher(m mailer.Service, s sms.Sender, bus events.Publisher) *Dispatcher {
	return &Dispatcher{mailer: m, sms: s, bus: bus}
}

func (d *Dispatcher) publish(ctx context.Context, subject string, payload interface{}) {
	if d.bus == nil {
		return
	}
	if err := d.bus.Publish(ctx, subject, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "subject", subject, "error", err)
	}
}

// OTPIssued delivers the code by email, falling back to SMS when the
// email send fails.
func (d *Dispatcher) OTPIssued(ctx context.Context, phone, email, userType, code string) {
	if email != "" {
		if err := d.mailer.SendOTP(email, "User", code); err == nil {
			d.publish(ctx, events.OTPIssued, events.OTPIssuedEvent{Phone: phone, UserType: userType, IssuedAt: time.Now()})
			return
		} else {
			logger.ErrorContext(ctx, "Failed to email OTP, falling back to SMS", "error", err, "phone", phone)
		}
	}
	msg := fmt.Sprintf("Your Trackify OTP is %s. It expires in 10 minutes.", code)
	if err := d.sms.Send(phone, msg); err != nil {
		logger.ErrorContext(ctx, "Failed to send OTP SMS", "error", err, "phone", phone)
	}
	d.publish(ctx, events.OTPIssued, events.OTPIssuedEvent{Phone: phone, UserType: userType, IssuedAt: time.Now()})
}

func (d *Dispatcher) VisitCheckedIn(ctx context.Context, v *domain.Visitor) {
	d.publish(ctx, events.VisitCheckedIn, events.VisitCheckedInEvent{
		VisitorID:   v.ID,
		VisitorName: v.Name,
		Phone:       v.Phone,
		Purpose:     v.Purpose,
		WhomToMeet:  v.WhomToMeet,
		CheckInTime: time.Now(),
	})
}

// VisitProcessed notifies the visitor of the decision (email primary,
// SMS fallback) and, on acceptance, the staff member being visited.
func (d *Dispatcher) VisitProcessed(ctx context.Context, v *domain.Visitor, status domain.VisitStatus, processedBy string, host *domain.Staff) {
	accepted := status == domain.VisitAccepted

	var emailErr error
	if v.Email != "" {
		if accepted {
			emailErr = d.mailer.SendVisitorApproval(v.Email, v.Name, v.Purpose, processedBy)
		} else {
			emailErr = d.mailer.SendVisitorRejection(v.Email, v.Name, v.Purpose, processedBy, "Security reasons")
		}
		if emailErr != nil {
			logger.ErrorContext(ctx, "Failed to email visit decision, falling back to SMS", "error", emailErr, "visitor_id", v.ID)
		}
	}
	if v.Email == "" || emailErr != nil {
		var msg string
		if accepted {
			msg = fmt.Sprintf("Hi %s, your visit has been approved. Please proceed to the reception.", v.Name)
		} else {
			msg = fmt.Sprintf("Hi %s, your visit request was declined.", v.Name)
		}
		if err := d.sms.Send(v.Phone, msg); err != nil {
			logger.ErrorContext(ctx, "Failed to send visit decision SMS", "error", err, "visitor_id", v.ID)
		}
	}

	if accepted && host != nil && host.Email != "" {
		if err := d.mailer.SendStaffNotification(host.Email, host.Name, v.Name, v.Purpose); err != nil {
			logger.ErrorContext(ctx, "Failed to notify staff of visitor", "error", err, "staff_id", host.ID)
		}
	}

	subject := events.VisitRejected
	if accepted {
		subject = events.VisitAccepted
	}
	d.publish(ctx, subject, events.VisitProcessedEvent{
		VisitorID:   v.ID,
		VisitorName: v.Name,
		Status:      string(status),
		ApprovedAt:  time.Now(),
	})
}

func (d *Dispatcher) VisitCheckedOut(ctx context.Context, v *domain.Visitor, at time.Time) {
	d.publish(ctx, events.VisitCheckedOut, events.VisitCheckedOutEvent{
		VisitorID:    v.ID,
		Phone:        v.Phone,
		CheckOutTime: at,
	})
}

func (d *Dispatcher) StaffExited(ctx context.Context, s *domain.Staff, purpose string, at time.Time) {
	d.publish(ctx, events.StaffExited, events.StaffMovementEvent{
		StaffID:   s.ID,
		StaffName: s.Name,
		Purpose:   purpose,
		At:        at,
	})
}

func (d *Dispatcher) StaffEntered(ctx context.Context, s *domain.Staff, at time.Time) {
	d.publish(ctx, events.StaffEntered, events.StaffMovementEvent{
		StaffID:   s.ID,
		StaffName: s.Name,
		At:        at,
	})
}
