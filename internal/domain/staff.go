package domain

import "time"

type Presence string

const (
	PresenceInside  Presence = "inside"
	PresenceOutside Presence = "outside"
)

type Staff struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone_number"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"created_at"`
}

// EntryLog is one staff outing. A row with ExitTime set and EntryTime nil
// is an open outing: the staff member is currently outside. A row with
// both set is a closed outing.
type EntryLog struct {
	ID        int64      `json:"id"`
	StaffID   int64      `json:"staff_id"`
	Purpose   string     `json:"purpose"`
	ExitTime  time.Time  `json:"exit_time"`
	EntryTime *time.Time `json:"entry_time,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (l *EntryLog) Open() bool {
	return l.EntryTime == nil
}

type StaffExitReq struct {
	Phone   string `json:"phoneNumber"`
	Purpose string `json:"purpose"`
}

type StaffEntryReq struct {
	Phone string `json:"phoneNumber"`
}

// StaffStatus pairs a staff member with their derived presence.
type StaffStatus struct {
	IsInside bool   `json:"isInside"`
	Staff    *Staff `json:"staff"`
}

// StaffLogEntry is an entry-log row joined with staff identity, as shown
// on the security dashboard and in reports.
type StaffLogEntry struct {
	EntryLog
	StaffName  string `json:"name"`
	Phone      string `json:"phone_number"`
	Department string `json:"department"`
}
