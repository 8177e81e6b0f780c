package availability

import (
	"time"

	"labloan-backend/internal/directory"
)

type slotKey struct {
	computerID int64
	date       string
}

func keyOf(computerID int64, date time.Time) slotKey {
	return slotKey{computerID: computerID, date: directory.FormatDate(date)}
}

// PendingSet holds the (computer, date) slots targeted by a pending loan.
type PendingSet map[slotKey]struct{}

// NewPendingSet keeps only the loans that are still pending.
func NewPendingSet(loans []directory.LoanView) PendingSet {
	p := make(PendingSet, len(loans))
	for _, l := range loans {
		if l.Status == directory.StatusPending {
			p.Add(l.ComputerID, l.LoanDate)
		}
	}
	return p
}

func (p PendingSet) Add(computerID int64, date time.Time) {
	p[keyOf(computerID, date)] = struct{}{}
}

func (p PendingSet) Has(computerID int64, date time.Time) bool {
	_, ok := p[keyOf(computerID, date)]
	return ok
}

// IsAvailable reports whether a slot can take a new loan: the schedule marks it
// available and no pending loan targets it.
func IsAvailable(e directory.ScheduleEntry, pending PendingSet) bool {
	return e.Available && !pending.Has(e.ComputerID, e.LoanDate)
}

// Snapshot is the availability projection of one read of the directory.
// Build a new one per request.
type Snapshot struct {
	entries map[slotKey]directory.ScheduleEntry
	pending PendingSet
}

func NewSnapshot(entries []directory.ScheduleEntry, loans []directory.LoanView) *Snapshot {
	s := &Snapshot{
		entries: make(map[slotKey]directory.ScheduleEntry, len(entries)),
		pending: NewPendingSet(loans),
	}
	for _, e := range entries {
		s.entries[keyOf(e.ComputerID, e.LoanDate)] = e
	}
	return s
}

func (s *Snapshot) Entry(computerID int64, date time.Time) (directory.ScheduleEntry, bool) {
	e, ok := s.entries[keyOf(computerID, date)]
	return e, ok
}

func (s *Snapshot) Pending(computerID int64, date time.Time) bool {
	return s.pending.Has(computerID, date)
}

// IsAvailable is false for slots without a schedule entry.
func (s *Snapshot) IsAvailable(computerID int64, date time.Time) bool {
	e, ok := s.Entry(computerID, date)
	if !ok {
		return false
	}
	return IsAvailable(e, s.pending)
}
