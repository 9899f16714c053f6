package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSend struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSend(apiKey, fromName, fromEmail string) (*MailerSend, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, errors.New("mailersend requires MAILERSEND_API_KEY and MAIL_FROM_EMAIL")
	}
	return &MailerSend{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}, nil
}

func (m *MailerSend) Send(toEmail, toName, subject, text, html string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)
	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	res, err := m.client.Email.Send(ctx, msg)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return "", fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return res.Header.Get("X-Message-Id"), nil
}

func (m *MailerSend) SendOTP(toEmail, name, code string) error {
	subject, text, html := otpMessage(name, code)
	_, err := m.Send(toEmail, name, subject, text, html)
	return err
}

func (m *MailerSend) SendVisitorApproval(toEmail, visitorName, purpose, approvedBy string) error {
	subject, text, html := approvalMessage(visitorName, purpose, approvedBy)
	_, err := m.Send(toEmail, visitorName, subject, text, html)
	return err
}

func (m *MailerSend) SendVisitorRejection(toEmail, visitorName, purpose, rejectedBy, reason string) error {
	subject, text, html := rejectionMessage(visitorName, purpose, rejectedBy, reason)
	_, err := m.Send(toEmail, visitorName, subject, text, html)
	return err
}

func (m *MailerSend) SendStaffNotification(toEmail, staffName, visitorName, purpose string) error {
	subject, text, html := staffNotificationMessage(staffName, visitorName, purpose)
	_, err := m.Send(toEmail, staffName, subject, text, html)
	return err
}

var _ Service = (*MailerSend)(nil)
