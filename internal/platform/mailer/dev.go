package mailer

import (
	"github.com/SahanaD8/Trackify/pkg/logger"
)

// DevMailer logs messages instead of sending them. Used when no email
// transport is configured.
type DevMailer struct{}

func NewDevMailer() *DevMailer { return &DevMailer{} }

func (d *DevMailer) Send(toEmail, toName, subject, text, html string) (string, error) {
	logger.Info("[DEV MAIL]",
		"to", toEmail,
		"name", toName,
		"subject", subject,
		"body", text,
	)
	return "dev", nil
}

func (d *DevMailer) SendOTP(toEmail, name, code string) error {
	subject, text, _ := otpMessage(name, code)
	_, err := d.Send(toEmail, name, subject, text, "")
	return err
}

func (d *DevMailer) SendVisitorApproval(toEmail, visitorName, purpose, approvedBy string) error {
	subject, text, _ := approvalMessage(visitorName, purpose, approvedBy)
	_, err := d.Send(toEmail, visitorName, subject, text, "")
	return err
}

func (d *DevMailer) SendVisitorRejection(toEmail, visitorName, purpose, rejectedBy, reason string) error {
	subject, text, _ := rejectionMessage(visitorName, purpose, rejectedBy, reason)
	_, err := d.Send(toEmail, visitorName, subject, text, "")
	return err
}

func (d *DevMailer) SendStaffNotification(toEmail, staffName, visitorName, purpose string) error {
	subject, text, _ := staffNotificationMessage(staffName, visitorName, purpose)
	_, err := d.Send(toEmail, staffName, subject, text, "")
	return err
}

var _ Service = (*DevMailer)(nil)
