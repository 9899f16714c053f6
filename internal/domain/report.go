package domain

import "time"

// ReportVisitor is a visitor row in a principal report, numbered in
// check-in order.
type ReportVisitor struct {
	Number int `json:"number"`
	Visitor
}

// ReportStaffLog is a staff movement row in a principal report.
type ReportStaffLog struct {
	Number int `json:"number"`
	StaffLogEntry
}

type ReportSection[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}

// DailyReport covers a single date; RangeReport covers a span.
type DailyReport struct {
	Date      string                         `json:"date"`
	Visitors  ReportSection[ReportVisitor]   `json:"visitors"`
	StaffLogs ReportSection[ReportStaffLog]  `json:"staffLogs"`
}

type RangeReport struct {
	FromDate  string                         `json:"fromDate"`
	ToDate    string                         `json:"toDate"`
	Visitors  ReportSection[ReportVisitor]   `json:"visitors"`
	StaffLogs ReportSection[ReportStaffLog]  `json:"staffLogs"`
}

// ReportDate parses the yyyy-mm-dd date format used by report queries.
func ReportDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
