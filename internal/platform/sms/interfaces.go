package sms

type Sender interface {
	Send(toPhone, message string) error
}
