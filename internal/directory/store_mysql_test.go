//go:build integration

package directory

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: LABLOAN_TEST_DSN='user:pw@tcp(127.0.0.1:3306)/labloan_test' go test -tags integration ./internal/directory/
func openMySQL(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("LABLOAN_TEST_DSN")
	if dsn == "" {
		t.Skip("LABLOAN_TEST_DSN not set")
	}
	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	cfg.Loc = time.UTC

	conn, err := sqlx.Open("mysql", cfg.FormatDSN())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	ctx := context.Background()
	require.NoError(t, conn.PingContext(ctx))
	require.NoError(t, Migrate(ctx, conn))
	return conn
}

type mysqlSeed struct {
	store    *Store
	computer Computer
	ayu      int64
	budi     int64
}

// seed uses fresh names so runs against the same database do not collide.
func seed(t *testing.T, conn *sqlx.DB) mysqlSeed {
	t.Helper()
	ctx := context.Background()
	s := NewStore(conn)
	run := ulid.Make().String()

	c, err := s.InsertComputer(ctx, "PC-"+run, "Lab Komputer Sains Data")
	require.NoError(t, err)

	addUser := func(nim string) int64 {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO users (nim, name, program, password_hash) VALUES (?, ?, ?, ?)`,
			nim+run, nim, "Sains Data Terapan", "-")
		require.NoError(t, err)
		id, err := res.LastInsertId()
		require.NoError(t, err)
		return id
	}
	ss := mysqlSeed{store: s, computer: c, ayu: addUser("A"), budi: addUser("B")}
	require.NoError(t, s.SetAvailability(ctx, c.ID, june10, true))
	return ss
}

func newLoan(userID, computerID int64) NewLoan {
	return NewLoan{ULID: ulid.Make().String(), UserID: userID, ComputerID: computerID, LoanDate: june10, CreatedAt: time.Now().UTC()}
}

func TestMySQLPendingSlotKey(t *testing.T) {
	s := seed(t, openMySQL(t))
	ctx := context.Background()

	first, err := s.store.InsertLoan(ctx, newLoan(s.ayu, s.computer.ID))
	require.NoError(t, err)

	_, err = s.store.InsertLoan(ctx, newLoan(s.budi, s.computer.ID))
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintPendingSlot, ce.Constraint)

	// once rejected the slot key is released
	require.NoError(t, s.store.UpdateLoanStatus(ctx, StatusUpdate{
		LoanID: first.ID, To: StatusRejected, Expected: StatusPending, DecidedBy: "laboran", DecidedAt: time.Now().UTC(),
	}))
	_, err = s.store.InsertLoan(ctx, newLoan(s.budi, s.computer.ID))
	assert.NoError(t, err)
}

func TestMySQLActiveUserDayKey(t *testing.T) {
	conn := openMySQL(t)
	s := seed(t, conn)
	ctx := context.Background()
	other, err := s.store.InsertComputer(ctx, s.computer.Name+"-b", s.computer.Location)
	require.NoError(t, err)

	_, err = s.store.InsertLoan(ctx, newLoan(s.ayu, s.computer.ID))
	require.NoError(t, err)

	_, err = s.store.InsertLoan(ctx, newLoan(s.ayu, other.ID))
	var ce *ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConstraintActiveUserDay, ce.Constraint)
}

func TestMySQLApproveRollsBackOnHeldSlot(t *testing.T) {
	s := seed(t, openMySQL(t))
	ctx := context.Background()

	l, err := s.store.InsertLoan(ctx, newLoan(s.ayu, s.computer.ID))
	require.NoError(t, err)
	require.NoError(t, s.store.SetAvailability(ctx, s.computer.ID, june10, false))

	err = s.store.WithinTx(ctx, func(ctx context.Context, d Directory) error {
		if err := d.UpdateLoanStatus(ctx, StatusUpdate{
			LoanID: l.ID, To: StatusApproved, Expected: StatusPending, DecidedBy: "laboran", DecidedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		holder := s.ayu
		return d.UpdateSchedule(ctx, ScheduleUpdate{
			ComputerID: s.computer.ID, Date: june10, HeldBy: &holder, OnlyIfFree: true,
		})
	})
	require.ErrorIs(t, err, ErrNoMatch)

	got, err := s.store.GetLoan(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestMySQLSetAvailabilityKeepsHeldEntry(t *testing.T) {
	s := seed(t, openMySQL(t))
	ctx := context.Background()

	holder := s.ayu
	require.NoError(t, s.store.UpdateSchedule(ctx, ScheduleUpdate{
		ComputerID: s.computer.ID, Date: june10, HeldBy: &holder, OnlyIfFree: true,
	}))
	require.NoError(t, s.store.SetAvailability(ctx, s.computer.ID, june10, true))

	e, err := s.store.GetSchedule(ctx, s.computer.ID, june10)
	require.NoError(t, err)
	assert.False(t, e.Available)
	assert.Equal(t, holder, e.HeldBy.Int64)
}
