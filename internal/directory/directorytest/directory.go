// Package directorytest provides an in-memory directory.Directory for tests.
//
// It enforces the same unique keys as schema.sql: one schedule row per
// (computer, date), one pending loan per (computer, date) and one non-rejected
// loan per (user, date). Transactions are serialized and roll back by
// restoring a snapshot.
package directorytest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"labloan-backend/internal/directory"
)

type slot struct {
	computerID int64
	date       string
}

type userRow struct {
	directory.User
	hash []byte
}

type adminRow struct {
	id   int64
	name string
	hash []byte
}

type state struct {
	computers map[int64]directory.Computer
	users     map[int64]userRow
	admins    map[string]adminRow
	schedule  map[slot]directory.ScheduleEntry
	loans     []directory.Loan
	nextID    int64
}

func (s *state) clone() *state {
	c := &state{
		computers: make(map[int64]directory.Computer, len(s.computers)),
		users:     make(map[int64]userRow, len(s.users)),
		admins:    make(map[string]adminRow, len(s.admins)),
		schedule:  make(map[slot]directory.ScheduleEntry, len(s.schedule)),
		loans:     append([]directory.Loan(nil), s.loans...),
		nextID:    s.nextID,
	}
	for k, v := range s.computers {
		c.computers[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.admins {
		c.admins[k] = v
	}
	for k, v := range s.schedule {
		c.schedule[k] = v
	}
	return c
}

type Directory struct {
	mu   sync.Mutex
	txMu sync.Mutex
	st   *state

	// BeforeInsert, when set, runs at the start of InsertLoan without locks held.
	// Tests use it to land a competing write inside the check-then-insert window.
	BeforeInsert func(ctx context.Context, l directory.NewLoan)
}

var _ directory.Directory = (*Directory)(nil)

func New() *Directory {
	return &Directory{st: &state{
		computers: map[int64]directory.Computer{},
		users:     map[int64]userRow{},
		admins:    map[string]adminRow{},
		schedule:  map[slot]directory.ScheduleEntry{},
	}}
}

func (d *Directory) id() int64 {
	d.st.nextID++
	return d.st.nextID
}

// ---------- seeding ----------

func (d *Directory) AddComputer(name, location string) directory.Computer {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := directory.Computer{ID: d.id(), Name: name, Location: location}
	d.st.computers[c.ID] = c
	return c
}

func (d *Directory) AddUser(nim, name, program, password string) directory.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	u := directory.User{ID: d.id(), NIM: nim, Name: name, Program: program}
	d.st.users[u.ID] = userRow{User: u, hash: hash}
	return u
}

func (d *Directory) AddAdmin(name, password string) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.id()
	d.st.admins[name] = adminRow{id: id, name: name, hash: hash}
	return id
}

// SetSchedule seeds or overwrites the schedule entry of one slot.
func (d *Directory) SetSchedule(computerID int64, date time.Time, available bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := slot{computerID, directory.FormatDate(date)}
	d.st.schedule[k] = directory.ScheduleEntry{ComputerID: computerID, LoanDate: directory.Day(date), Available: available}
}

// Schedule returns the stored entry of one slot.
func (d *Directory) Schedule(computerID int64, date time.Time) (directory.ScheduleEntry, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.st.schedule[slot{computerID, directory.FormatDate(date)}]
	return e, ok
}

// Loans returns a copy of every stored loan in insertion order.
func (d *Directory) Loans() []directory.Loan {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]directory.Loan(nil), d.st.loans...)
}

// ---------- Reader ----------

func (d *Directory) ListComputers(ctx context.Context) ([]directory.Computer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]directory.Computer, 0, len(d.st.computers))
	for _, c := range d.st.computers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (d *Directory) GetComputer(ctx context.Context, id int64) (directory.Computer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.st.computers[id]
	if !ok {
		return directory.Computer{}, fmt.Errorf("get computer: %w", directory.ErrNotFound)
	}
	return c, nil
}

func (d *Directory) InsertComputer(ctx context.Context, name, location string) (directory.Computer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.st.computers {
		if c.Name == name {
			return directory.Computer{}, &directory.ConstraintError{Constraint: directory.ConstraintComputerName, Err: fmt.Errorf("duplicate computer %s", name)}
		}
	}
	c := directory.Computer{ID: d.id(), Name: name, Location: location}
	d.st.computers[c.ID] = c
	return c, nil
}

func (d *Directory) ListSchedule(ctx context.Context, r directory.DateRange) ([]directory.ScheduleEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	from, to := directory.FormatDate(r.From), directory.FormatDate(r.To)
	var out []directory.ScheduleEntry
	for k, e := range d.st.schedule {
		if k.date >= from && k.date <= to {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoanDate.Equal(out[j].LoanDate) {
			return out[i].LoanDate.Before(out[j].LoanDate)
		}
		return out[i].ComputerID < out[j].ComputerID
	})
	return out, nil
}

func (d *Directory) GetSchedule(ctx context.Context, computerID int64, date time.Time) (directory.ScheduleEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.st.schedule[slot{computerID, directory.FormatDate(date)}]
	if !ok {
		return directory.ScheduleEntry{}, fmt.Errorf("get schedule: %w", directory.ErrNotFound)
	}
	return e, nil
}

func (d *Directory) view(l directory.Loan) directory.LoanView {
	c := d.st.computers[l.ComputerID]
	u := d.st.users[l.UserID]
	return directory.LoanView{
		Loan:         l,
		ComputerName: c.Name,
		Location:     c.Location,
		UserName:     u.Name,
		UserNIM:      u.NIM,
	}
}

func matches(l directory.Loan, f directory.LoanFilter) bool {
	if len(f.Dates) > 0 {
		hit := false
		for _, dt := range f.Dates {
			if directory.FormatDate(dt) == directory.FormatDate(l.LoanDate) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	if f.Range != nil {
		ds := directory.FormatDate(l.LoanDate)
		if ds < directory.FormatDate(f.Range.From) || ds > directory.FormatDate(f.Range.To) {
			return false
		}
	}
	if f.Status != nil && l.Status != *f.Status {
		return false
	}
	if f.ExcludeStatus != nil && l.Status == *f.ExcludeStatus {
		return false
	}
	if f.UserID != nil && l.UserID != *f.UserID {
		return false
	}
	if f.ComputerID != nil && l.ComputerID != *f.ComputerID {
		return false
	}
	return true
}

func (d *Directory) ListLoans(ctx context.Context, f directory.LoanFilter) ([]directory.LoanView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []directory.LoanView
	for _, l := range d.st.loans {
		if matches(l, f) {
			out = append(out, d.view(l))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].LoanDate.Equal(out[j].LoanDate) {
			return out[i].LoanDate.Before(out[j].LoanDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (d *Directory) GetLoan(ctx context.Context, id int64) (directory.LoanView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.st.loans {
		if l.ID == id {
			return d.view(l), nil
		}
	}
	return directory.LoanView{}, fmt.Errorf("get loan: %w", directory.ErrNotFound)
}

func (d *Directory) GetLoanByULID(ctx context.Context, ulid string) (directory.LoanView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, l := range d.st.loans {
		if l.ULID == ulid {
			return d.view(l), nil
		}
	}
	return directory.LoanView{}, fmt.Errorf("get loan: %w", directory.ErrNotFound)
}

func (d *Directory) GetUser(ctx context.Context, id int64) (directory.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.st.users[id]
	if !ok {
		return directory.User{}, fmt.Errorf("get user: %w", directory.ErrNotFound)
	}
	return u.User, nil
}

// ---------- Writer ----------

// checkUnique mirrors the generated-column keys of the loans table.
func (d *Directory) checkUnique(l directory.Loan, skipID int64) error {
	date := directory.FormatDate(l.LoanDate)
	for _, o := range d.st.loans {
		if o.ID == skipID || directory.FormatDate(o.LoanDate) != date {
			continue
		}
		if l.Status == directory.StatusPending && o.Status == directory.StatusPending && o.ComputerID == l.ComputerID {
			return &directory.ConstraintError{
				Constraint: directory.ConstraintPendingSlot,
				Err:        fmt.Errorf("duplicate entry '%d|%s'", l.ComputerID, date),
			}
		}
		if l.Status != directory.StatusRejected && o.Status != directory.StatusRejected && o.UserID == l.UserID {
			return &directory.ConstraintError{
				Constraint: directory.ConstraintActiveUserDay,
				Err:        fmt.Errorf("duplicate entry '%d|%s'", l.UserID, date),
			}
		}
	}
	return nil
}

func (d *Directory) InsertLoan(ctx context.Context, n directory.NewLoan) (directory.Loan, error) {
	if d.BeforeInsert != nil {
		d.BeforeInsert(ctx, n)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if strings.TrimSpace(n.ULID) == "" {
		return directory.Loan{}, fmt.Errorf("insert loan: empty ulid")
	}
	for _, o := range d.st.loans {
		if o.ULID == n.ULID {
			return directory.Loan{}, &directory.ConstraintError{Constraint: "uq_loans_ulid", Err: fmt.Errorf("duplicate ulid %s", n.ULID)}
		}
	}
	l := directory.Loan{
		ULID:       n.ULID,
		UserID:     n.UserID,
		ComputerID: n.ComputerID,
		LoanDate:   directory.Day(n.LoanDate),
		Status:     directory.StatusPending,
		CreatedAt:  n.CreatedAt,
	}
	if err := d.checkUnique(l, 0); err != nil {
		return directory.Loan{}, err
	}
	l.ID = d.id()
	d.st.loans = append(d.st.loans, l)
	return l, nil
}

func (d *Directory) UpdateLoanStatus(ctx context.Context, u directory.StatusUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.st.loans {
		if l.ID != u.LoanID || l.Status != u.Expected {
			continue
		}
		next := l
		next.Status = u.To
		next.DecidedAt = sql.NullTime{Time: u.DecidedAt, Valid: true}
		next.DecidedBy = sql.NullString{String: u.DecidedBy, Valid: true}
		if err := d.checkUnique(next, l.ID); err != nil {
			return err
		}
		d.st.loans[i] = next
		return nil
	}
	return fmt.Errorf("update loan status: %w", directory.ErrNoMatch)
}

func (d *Directory) UpdateSchedule(ctx context.Context, u directory.ScheduleUpdate) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	k := slot{u.ComputerID, directory.FormatDate(u.Date)}
	e, ok := d.st.schedule[k]
	if !ok {
		return fmt.Errorf("update schedule: %w", directory.ErrNoMatch)
	}
	if u.OnlyIfFree {
		heldBySame := u.HeldBy != nil && e.HeldBy.Valid && e.HeldBy.Int64 == *u.HeldBy
		if !e.Available && !heldBySame {
			return fmt.Errorf("update schedule: %w", directory.ErrNoMatch)
		}
	}
	e.Available = u.Available
	e.HeldBy = sql.NullInt64{}
	if u.HeldBy != nil {
		e.HeldBy = sql.NullInt64{Int64: *u.HeldBy, Valid: true}
	}
	d.st.schedule[k] = e
	return nil
}

func (d *Directory) SetAvailability(ctx context.Context, computerID int64, date time.Time, available bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.st.computers[computerID]; !ok {
		return fmt.Errorf("set availability: %w", directory.ErrNotFound)
	}
	k := slot{computerID, directory.FormatDate(date)}
	e, ok := d.st.schedule[k]
	if !ok {
		e = directory.ScheduleEntry{ComputerID: computerID, LoanDate: directory.Day(date)}
	}
	if !e.HeldBy.Valid {
		e.Available = available
	}
	d.st.schedule[k] = e
	return nil
}

func (d *Directory) WithinTx(ctx context.Context, fn func(ctx context.Context, d directory.Directory) error) error {
	d.txMu.Lock()
	defer d.txMu.Unlock()

	d.mu.Lock()
	snap := d.st.clone()
	d.mu.Unlock()

	if err := fn(ctx, d); err != nil {
		d.mu.Lock()
		d.st = snap
		d.mu.Unlock()
		return err
	}
	return nil
}

// ---------- CredentialVerifier ----------

func (d *Directory) VerifyStudent(ctx context.Context, nim, password string) (directory.Identity, error) {
	d.mu.Lock()
	var found *userRow
	for _, u := range d.st.users {
		if u.NIM == nim {
			u := u
			found = &u
			break
		}
	}
	d.mu.Unlock()
	if found == nil || bcrypt.CompareHashAndPassword(found.hash, []byte(password)) != nil {
		return directory.Identity{}, directory.ErrInvalidCredentials
	}
	return directory.Identity{
		ID:         found.ID,
		Identifier: found.NIM,
		Name:       found.Name,
		Role:       directory.RoleStudent,
		Program:    found.Program,
	}, nil
}

func (d *Directory) VerifyAdmin(ctx context.Context, name, password string) (directory.Identity, error) {
	d.mu.Lock()
	a, ok := d.st.admins[name]
	d.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return directory.Identity{}, directory.ErrInvalidCredentials
	}
	return directory.Identity{ID: a.id, Identifier: a.name, Name: a.name, Role: directory.RoleAdmin}, nil
}
