package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"labloan-backend/internal/platform/db"
)

// Store is the MySQL-backed Directory.
type Store struct {
	conn *sqlx.DB // nil inside a transaction
	q    db.DBTX
	sb   sq.StatementBuilderType
}

var _ Directory = (*Store)(nil)

func NewStore(conn *sqlx.DB) *Store {
	return &Store{
		conn: conn,
		q:    conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// wrap maps driver errors onto the directory sentinels. Errors the server
// returned for the statement itself stay plain; everything else is a
// transport or timeout failure.
func wrap(op string, err error) error {
	var me *mysql.MySQLError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.As(err, &me):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, d Directory) error) error {
	if s.conn == nil {
		return fn(ctx, s)
	}
	var fnErr error
	err := db.RunInTx(ctx, s.conn, nil, func(ctx context.Context, tx db.DBTX) error {
		fnErr = fn(ctx, &Store{q: tx, sb: s.sb})
		return fnErr
	})
	if err != nil && fnErr == nil {
		// begin or commit failed
		return wrap("tx", err)
	}
	return err
}

// ---------- computers ----------

func (s *Store) ListComputers(ctx context.Context) ([]Computer, error) {
	q, args, err := s.sb.Select("id", "name", "location").
		From("computers").
		OrderBy("name ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var out []Computer
	if err := s.q.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, wrap("list computers", err)
	}
	return out, nil
}

func (s *Store) GetComputer(ctx context.Context, id int64) (Computer, error) {
	q, args, err := s.sb.Select("id", "name", "location").
		From("computers").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return Computer{}, err
	}
	var c Computer
	if err := s.q.GetContext(ctx, &c, q, args...); err != nil {
		return Computer{}, wrap("get computer", err)
	}
	return c, nil
}

func (s *Store) InsertComputer(ctx context.Context, name, location string) (Computer, error) {
	q, args, err := s.sb.Insert("computers").
		Columns("name", "location").
		Values(name, location).
		ToSql()
	if err != nil {
		return Computer{}, err
	}
	res, err := s.q.ExecContext(ctx, q, args...)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return Computer{}, &ConstraintError{Constraint: db.DuplicateKeyName(err), Err: err}
		}
		return Computer{}, wrap("insert computer", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Computer{}, wrap("insert computer", err)
	}
	return Computer{ID: id, Name: name, Location: location}, nil
}

// ---------- schedule ----------

var scheduleColumns = []string{"computer_id", "loan_date", "available", "held_by"}

func (s *Store) ListSchedule(ctx context.Context, r DateRange) ([]ScheduleEntry, error) {
	q, args, err := s.sb.Select(scheduleColumns...).
		From("computer_schedule").
		Where(sq.GtOrEq{"loan_date": FormatDate(r.From)}).
		Where(sq.LtOrEq{"loan_date": FormatDate(r.To)}).
		OrderBy("loan_date ASC", "computer_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}
	var out []ScheduleEntry
	if err := s.q.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, wrap("list schedule", err)
	}
	return out, nil
}

func (s *Store) GetSchedule(ctx context.Context, computerID int64, date time.Time) (ScheduleEntry, error) {
	q, args, err := s.sb.Select(scheduleColumns...).
		From("computer_schedule").
		Where(sq.Eq{"computer_id": computerID, "loan_date": FormatDate(date)}).
		Limit(1).
		ToSql()
	if err != nil {
		return ScheduleEntry{}, err
	}
	var e ScheduleEntry
	if err := s.q.GetContext(ctx, &e, q, args...); err != nil {
		return ScheduleEntry{}, wrap("get schedule", err)
	}
	return e, nil
}

func (s *Store) UpdateSchedule(ctx context.Context, u ScheduleUpdate) error {
	b := s.sb.Update("computer_schedule").
		Set("available", u.Available).
		Where(sq.Eq{"computer_id": u.ComputerID, "loan_date": FormatDate(u.Date)})
	if u.HeldBy != nil {
		b = b.Set("held_by", *u.HeldBy)
	} else {
		b = b.Set("held_by", nil)
	}
	if u.OnlyIfFree {
		free := sq.Or{sq.Eq{"available": true}}
		if u.HeldBy != nil {
			free = append(free, sq.Eq{"held_by": *u.HeldBy})
		}
		b = b.Where(free)
	}
	q, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, "update schedule", q, args...)
}

func (s *Store) SetAvailability(ctx context.Context, computerID int64, date time.Time, available bool) error {
	q, args, err := s.sb.Insert("computer_schedule").
		Columns("computer_id", "loan_date", "available").
		Values(computerID, FormatDate(date), available).
		Suffix("ON DUPLICATE KEY UPDATE available = IF(held_by IS NULL, VALUES(available), available)").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx, q, args...); err != nil {
		return wrap("set availability", err)
	}
	return nil
}

// ---------- loans ----------

func (s *Store) loanViewQuery() sq.SelectBuilder {
	return s.sb.Select(
		"l.id", "l.loan_ulid", "l.user_id", "l.computer_id", "l.loan_date", "l.status",
		"l.created_at", "l.decided_at", "l.decided_by",
		"c.name AS computer_name", "c.location AS location",
		"u.name AS user_name", "u.nim AS user_nim",
	).
		From("loans l").
		Join("computers c ON c.id = l.computer_id").
		Join("users u ON u.id = l.user_id")
}

func (s *Store) ListLoans(ctx context.Context, f LoanFilter) ([]LoanView, error) {
	b := s.loanViewQuery()
	if len(f.Dates) > 0 {
		dates := make([]string, 0, len(f.Dates))
		for _, d := range f.Dates {
			dates = append(dates, FormatDate(d))
		}
		b = b.Where(sq.Eq{"l.loan_date": dates})
	}
	if f.Range != nil {
		b = b.Where(sq.GtOrEq{"l.loan_date": FormatDate(f.Range.From)}).
			Where(sq.LtOrEq{"l.loan_date": FormatDate(f.Range.To)})
	}
	if f.Status != nil {
		b = b.Where(sq.Eq{"l.status": string(*f.Status)})
	}
	if f.ExcludeStatus != nil {
		b = b.Where(sq.NotEq{"l.status": string(*f.ExcludeStatus)})
	}
	if f.UserID != nil {
		b = b.Where(sq.Eq{"l.user_id": *f.UserID})
	}
	if f.ComputerID != nil {
		b = b.Where(sq.Eq{"l.computer_id": *f.ComputerID})
	}
	q, args, err := b.OrderBy("l.loan_date ASC", "l.id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	var out []LoanView
	if err := s.q.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, wrap("list loans", err)
	}
	return out, nil
}

func (s *Store) GetLoan(ctx context.Context, id int64) (LoanView, error) {
	return s.getLoanWhere(ctx, sq.Eq{"l.id": id})
}

func (s *Store) GetLoanByULID(ctx context.Context, ulid string) (LoanView, error) {
	return s.getLoanWhere(ctx, sq.Eq{"l.loan_ulid": ulid})
}

func (s *Store) getLoanWhere(ctx context.Context, pred sq.Eq) (LoanView, error) {
	q, args, err := s.loanViewQuery().Where(pred).Limit(1).ToSql()
	if err != nil {
		return LoanView{}, err
	}
	var v LoanView
	if err := s.q.GetContext(ctx, &v, q, args...); err != nil {
		return LoanView{}, wrap("get loan", err)
	}
	return v, nil
}

func (s *Store) InsertLoan(ctx context.Context, l NewLoan) (Loan, error) {
	q, args, err := s.sb.Insert("loans").
		Columns("loan_ulid", "user_id", "computer_id", "loan_date", "status", "created_at").
		Values(l.ULID, l.UserID, l.ComputerID, FormatDate(l.LoanDate), string(StatusPending), l.CreatedAt).
		ToSql()
	if err != nil {
		return Loan{}, err
	}
	res, err := s.q.ExecContext(ctx, q, args...)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return Loan{}, &ConstraintError{Constraint: db.DuplicateKeyName(err), Err: err}
		}
		return Loan{}, wrap("insert loan", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Loan{}, wrap("insert loan", err)
	}
	return Loan{
		ID:         id,
		ULID:       l.ULID,
		UserID:     l.UserID,
		ComputerID: l.ComputerID,
		LoanDate:   Day(l.LoanDate),
		Status:     StatusPending,
		CreatedAt:  l.CreatedAt,
	}, nil
}

func (s *Store) UpdateLoanStatus(ctx context.Context, u StatusUpdate) error {
	q, args, err := s.sb.Update("loans").
		Set("status", string(u.To)).
		Set("decided_at", u.DecidedAt).
		Set("decided_by", u.DecidedBy).
		Where(sq.Eq{"id": u.LoanID, "status": string(u.Expected)}).
		ToSql()
	if err != nil {
		return err
	}
	return s.execOne(ctx, "update loan status", q, args...)
}

// execOne runs a conditional write and reports ErrNoMatch when no row matched.
func (s *Store) execOne(ctx context.Context, op, q string, args ...any) error {
	res, err := s.q.ExecContext(ctx, q, args...)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoMatch)
	}
	return nil
}

// ---------- users & credentials ----------

func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	q, args, err := s.sb.Select("id", "nim", "name", "program").
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return User{}, err
	}
	var u User
	if err := s.q.GetContext(ctx, &u, q, args...); err != nil {
		return User{}, wrap("get user", err)
	}
	return u, nil
}

type credentialRow struct {
	ID           int64  `db:"id"`
	Identifier   string `db:"identifier"`
	Name         string `db:"name"`
	Program      string `db:"program"`
	PasswordHash string `db:"password_hash"`
}

func (s *Store) VerifyStudent(ctx context.Context, nim, password string) (Identity, error) {
	b := s.sb.Select("id", "nim AS identifier", "name", "program", "password_hash").
		From("users").
		Where(sq.Eq{"nim": nim})
	return s.verify(ctx, b, password, RoleStudent)
}

func (s *Store) VerifyAdmin(ctx context.Context, name, password string) (Identity, error) {
	b := s.sb.Select("id", "name AS identifier", "name", "'' AS program", "password_hash").
		From("admins").
		Where(sq.Eq{"name": name})
	return s.verify(ctx, b, password, RoleAdmin)
}

func (s *Store) verify(ctx context.Context, b sq.SelectBuilder, password, role string) (Identity, error) {
	q, args, err := b.Limit(1).ToSql()
	if err != nil {
		return Identity{}, err
	}
	var row credentialRow
	if err := s.q.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, wrap("verify credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{
		ID:         row.ID,
		Identifier: row.Identifier,
		Name:       row.Name,
		Role:       role,
		Program:    row.Program,
	}, nil
}
