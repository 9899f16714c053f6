package mailer

import "fmt"

// Message bodies shared by every Service implementation.

func otpMessage(name, code string) (subject, text, html string) {
	subject = "Your Trackify OTP Code"
	text = fmt.Sprintf("Hello %s,\n\nYour one-time code is %s. It expires in 10 minutes.\n\nIf you did not request this, ignore this email.", name, code)
	html = fmt.Sprintf(`<p>Hello %s,</p><p>Your one-time code is <b style="font-size:24px;letter-spacing:4px">%s</b>. It expires in 10 minutes.</p><p>If you did not request this, ignore this email.</p>`, name, code)
	return
}

func approvalMessage(visitorName, purpose, approvedBy string) (subject, text, html string) {
	subject = "Your visit has been approved"
	text = fmt.Sprintf("Dear %s,\n\nYour visit (%s) has been approved by %s. Please proceed to the reception.", visitorName, purpose, approvedBy)
	html = fmt.Sprintf(`<p>Dear %s,</p><p>Your visit (<i>%s</i>) has been <b>approved</b> by %s. Please proceed to the reception.</p>`, visitorName, purpose, approvedBy)
	return
}

func rejectionMessage(visitorName, purpose, rejectedBy, reason string) (subject, text, html string) {
	subject = "Your visit request was declined"
	text = fmt.Sprintf("Dear %s,\n\nYour visit request (%s) was declined by %s. Reason: %s.", visitorName, purpose, rejectedBy, reason)
	html = fmt.Sprintf(`<p>Dear %s,</p><p>Your visit request (<i>%s</i>) was <b>declined</b> by %s.</p><p>Reason: %s.</p>`, visitorName, purpose, rejectedBy, reason)
	return
}

func staffNotificationMessage(staffName, visitorName, purpose string) (subject, text, html string) {
	subject = "A visitor is waiting for you"
	text = fmt.Sprintf("Hello %s,\n\n%s has checked in to meet you. Purpose: %s.", staffName, visitorName, purpose)
	html = fmt.Sprintf(`<p>Hello %s,</p><p><b>%s</b> has checked in to meet you.</p><p>Purpose: %s.</p>`, staffName, visitorName, purpose)
	return
}
