package mailer

type Service interface {
	Send(toEmail, toName, subject, text, html string) (string, error)
	SendOTP(toEmail, name, code string) error
	SendVisitorApproval(toEmail, visitorName, purpose, approvedBy string) error
	SendVisitorRejection(toEmail, visitorName, purpose, rejectedBy, reason string) error
	SendStaffNotification(toEmail, staffName, visitorName, purpose string) error
}
