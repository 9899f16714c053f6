package sms

import (
	"errors"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/SahanaD8/Trackify/pkg/logger"
)

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender requires a valid account SID (Twilio SIDs start with
// "AC"), auth token and sending number.
func NewTwilioSender(accountSID, authToken, fromNumber string) (*TwilioSender, error) {
	if !strings.HasPrefix(accountSID, "AC") || authToken == "" || fromNumber == "" {
		return nil, errors.New("twilio requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: fromNumber}, nil
}

func (t *TwilioSender) Send(toPhone, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toPhone)
	params.SetFrom(t.from)
	params.SetBody(message)

	res, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if res.Sid != nil {
		logger.Debug("SMS sent", "to", toPhone, "sid", *res.Sid)
	}
	return nil
}

var _ Sender = (*TwilioSender)(nil)
