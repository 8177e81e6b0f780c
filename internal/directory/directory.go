package directory

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound            = errors.New("directory: not found")
	ErrNoMatch             = errors.New("directory: no row matched")
	ErrConstraintViolation = errors.New("directory: constraint violation")
	ErrUnavailable         = errors.New("directory: unavailable")
	ErrInvalidCredentials  = errors.New("directory: invalid credentials")
)

// Unique keys enforced by the schema. Inserts report the violated one.
const (
	ConstraintPendingSlot   = "uq_loans_pending_slot"
	ConstraintActiveUserDay = "uq_loans_active_user_day"
	ConstraintComputerName  = "uq_computers_name"
)

// ConstraintError matches ErrConstraintViolation under errors.Is.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("directory: constraint %s violated: %v", e.Constraint, e.Err)
}

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraintViolation }
func (e *ConstraintError) Unwrap() error        { return e.Err }

type Reader interface {
	ListComputers(ctx context.Context) ([]Computer, error)
	GetComputer(ctx context.Context, id int64) (Computer, error)
	ListSchedule(ctx context.Context, r DateRange) ([]ScheduleEntry, error)
	GetSchedule(ctx context.Context, computerID int64, date time.Time) (ScheduleEntry, error)
	ListLoans(ctx context.Context, f LoanFilter) ([]LoanView, error)
	GetLoan(ctx context.Context, id int64) (LoanView, error)
	GetLoanByULID(ctx context.Context, ulid string) (LoanView, error)
	GetUser(ctx context.Context, id int64) (User, error)
}

type Writer interface {
	// InsertLoan returns a *ConstraintError when a unique key rejects the row.
	InsertLoan(ctx context.Context, l NewLoan) (Loan, error)
	// UpdateLoanStatus applies only while the loan is still in u.Expected; otherwise ErrNoMatch.
	UpdateLoanStatus(ctx context.Context, u StatusUpdate) error
	UpdateSchedule(ctx context.Context, u ScheduleUpdate) error
	// InsertComputer returns a *ConstraintError when the name is taken.
	InsertComputer(ctx context.Context, name, location string) (Computer, error)
	// SetAvailability creates or updates one schedule entry. Entries held by an
	// approved loan keep their state.
	SetAvailability(ctx context.Context, computerID int64, date time.Time, available bool) error
}

type CredentialVerifier interface {
	VerifyStudent(ctx context.Context, nim, password string) (Identity, error)
	VerifyAdmin(ctx context.Context, name, password string) (Identity, error)
}

//go:generate mockgen -destination=mock/directory.go -package=mock labloan-backend/internal/directory Directory

// Directory is the system of record for computers, schedules, users and loans.
type Directory interface {
	Reader
	Writer
	CredentialVerifier
	// WithinTx runs fn against a transactional view. Both writes appear or neither does.
	WithinTx(ctx context.Context, fn func(ctx context.Context, d Directory) error) error
}
