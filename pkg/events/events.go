package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/SahanaD8/Trackify/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Event subjects
const (
	// Visitor visit lifecycle
	VisitCheckedIn  = "visit.checked_in"
	VisitAccepted   = "visit.accepted"
	VisitRejected   = "visit.rejected"
	VisitCheckedOut = "visit.checked_out"

	// Staff presence
	StaffExited  = "staff.exited"
	StaffEntered = "staff.entered"

	// OTP issuance
	OTPIssued = "otp.issued"
)

// Event payloads
type VisitCheckedInEvent struct {
	VisitorID   int64     `json:"visitor_id"`
	VisitorName string    `json:"visitor_name"`
	Phone       string    `json:"phone_number"`
	Purpose     string    `json:"purpose"`
	WhomToMeet  string    `json:"whom_to_meet"`
	CheckInTime time.Time `json:"check_in_time"`
}

type VisitProcessedEvent struct {
	VisitorID   int64     `json:"visitor_id"`
	VisitorName string    `json:"visitor_name"`
	Status      string    `json:"status"`
	ApprovedAt  time.Time `json:"approved_at"`
}

type VisitCheckedOutEvent struct {
	VisitorID    int64     `json:"visitor_id"`
	Phone        string    `json:"phone_number"`
	CheckOutTime time.Time `json:"check_out_time"`
}

type StaffMovementEvent struct {
	StaffID   int64     `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Purpose   string    `json:"purpose,omitempty"`
	At        time.Time `json:"at"`
}

type OTPIssuedEvent struct {
	Phone    string    `json:"phone_number"`
	UserType string    `json:"user_type"`
	IssuedAt time.Time `json:"issued_at"`
}
