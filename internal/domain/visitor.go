package domain

import "time"

type VisitStatus string

const (
	VisitPending  VisitStatus = "pending"
	VisitAccepted VisitStatus = "accepted"
	VisitRejected VisitStatus = "rejected"
)

func ParseVisitStatus(s string) (VisitStatus, bool) {
	switch VisitStatus(s) {
	case VisitPending, VisitAccepted, VisitRejected:
		return VisitStatus(s), true
	default:
		return "", false
	}
}

type VisitAction string

const (
	ActionAccept VisitAction = "accept"
	ActionReject VisitAction = "reject"
)

// Visitor holds a visitor's profile plus their single in-flight visit.
// A new check-in overwrites the visit columns, so at most one visit is
// tracked per visitor at a time.
type Visitor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone_number"`
	Email       string `json:"email"`
	Place       string `json:"place"`
	BadgeToken  string `json:"badge_token"`

	Purpose      string       `json:"purpose,omitempty"`
	WhomToMeet   string       `json:"whom_to_meet,omitempty"`
	CheckInTime  *time.Time   `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time   `json:"check_out_time,omitempty"`
	Status       *VisitStatus `json:"status,omitempty"`
	ApprovedAt   *time.Time   `json:"approved_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasActiveVisit reports whether the visitor is on premises: accepted
// and not yet checked out.
func (v *Visitor) HasActiveVisit() bool {
	return v.Status != nil && *v.Status == VisitAccepted && v.CheckOutTime == nil
}

// HasPendingVisit reports whether a visit request is awaiting approval.
func (v *Visitor) HasPendingVisit() bool {
	return v.Status != nil && *v.Status == VisitPending
}

type RegisterVisitorReq struct {
	Name  string `json:"name"`
	Phone string `json:"phoneNumber"`
	Email string `json:"email"`
	Place string `json:"place"`
	OTP   string `json:"otp"`
}

type VisitorCheckInReq struct {
	Phone      string `json:"phoneNumber"`
	Purpose    string `json:"purpose"`
	WhomToMeet string `json:"whomToMeet"`
}

type ProcessVisitReq struct {
	VisitID int64       `json:"visitId"`
	Action  VisitAction `json:"action"`
}

// VisitorLookup is the phone-lookup result used by the kiosk flow before
// registration or check-in.
type VisitorLookup struct {
	Exists         bool     `json:"exists"`
	HasActiveVisit bool     `json:"hasActiveVisit"`
	Visitor        *Visitor `json:"visitor,omitempty"`
}

// VisitStats is the receptionist/security dashboard counter set for a day.
type VisitStats struct {
	TotalVisits     int `json:"total_visits"`
	Pending         int `json:"pending"`
	Accepted        int `json:"accepted"`
	Rejected        int `json:"rejected"`
	CurrentlyInside int `json:"currently_inside"`
}
