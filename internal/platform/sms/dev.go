package sms

import (
	"github.com/SahanaD8/Trackify/pkg/logger"
)

// DevSender logs SMS messages instead of sending them. Used when Twilio
// is not configured.
type DevSender struct{}

func NewDevSender() *DevSender { return &DevSender{} }

func (d *DevSender) Send(toPhone, message string) error {
	logger.Info("[DEV SMS]", "to", toPhone, "message", message)
	return nil
}

var _ Sender = (*DevSender)(nil)
