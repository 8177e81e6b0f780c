package directory

import (
	"database/sql"
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a loan date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown loan status %q", v)
	}
	return s, nil
}

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type Computer struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Location string `db:"location" json:"location"`
}

// ScheduleEntry is the per-day availability record of one computer.
type ScheduleEntry struct {
	ComputerID int64         `db:"computer_id"`
	LoanDate   time.Time     `db:"loan_date"`
	Available  bool          `db:"available"`
	HeldBy     sql.NullInt64 `db:"held_by"`
}

type User struct {
	ID      int64  `db:"id"`
	NIM     string `db:"nim"`
	Name    string `db:"name"`
	Program string `db:"program"`
}

// Identity is what a successful credential check yields.
type Identity struct {
	ID         int64
	Identifier string
	Name       string
	Role       string
	Program    string
}

type Loan struct {
	ID         int64          `db:"id"`
	ULID       string         `db:"loan_ulid"`
	UserID     int64          `db:"user_id"`
	ComputerID int64          `db:"computer_id"`
	LoanDate   time.Time      `db:"loan_date"`
	Status     Status         `db:"status"`
	CreatedAt  time.Time      `db:"created_at"`
	DecidedAt  sql.NullTime   `db:"decided_at"`
	DecidedBy  sql.NullString `db:"decided_by"`
}

// LoanView is a Loan joined with the computer and user display fields.
type LoanView struct {
	Loan
	ComputerName string `db:"computer_name"`
	Location     string `db:"location"`
	UserName     string `db:"user_name"`
	UserNIM      string `db:"user_nim"`
}

type NewLoan struct {
	ULID       string
	UserID     int64
	ComputerID int64
	LoanDate   time.Time
	CreatedAt  time.Time
}

type StatusUpdate struct {
	LoanID    int64
	To        Status
	Expected  Status
	DecidedBy string
	DecidedAt time.Time
}

type ScheduleUpdate struct {
	ComputerID int64
	Date       time.Time
	Available  bool
	HeldBy     *int64
	// OnlyIfFree restricts the update to slots that are available or already held by HeldBy.
	OnlyIfFree bool
}

// DateRange is inclusive on both ends.
type DateRange struct {
	From time.Time
	To   time.Time
}

func SingleDay(d time.Time) DateRange { return DateRange{From: d, To: d} }

type LoanFilter struct {
	Dates         []time.Time
	Range         *DateRange
	Status        *Status
	ExcludeStatus *Status
	UserID        *int64
	ComputerID    *int64
}

// ParseDate parses a YYYY-MM-DD loan date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Day truncates t to its calendar date in t's own location, returned as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string { return t.Format(DateLayout) }
