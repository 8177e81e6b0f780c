package loans

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labloan-backend/internal/availability"
	"labloan-backend/internal/directory"
)

func submitted(t *testing.T, f *fixture, u directory.User, c directory.Computer) LoanResponse {
	t.Helper()
	res, err := f.svc.Submit(context.Background(), student(u), submitReq(c, "2024-06-10"))
	require.NoError(t, err)
	return res
}

func snapshotFor(t *testing.T, f *fixture) *availability.Snapshot {
	t.Helper()
	ctx := context.Background()
	entries, err := f.dir.ListSchedule(ctx, directory.SingleDay(june10))
	require.NoError(t, err)
	loans, err := f.dir.ListLoans(ctx, directory.LoanFilter{Dates: []time.Time{june10}})
	require.NoError(t, err)
	return availability.NewSnapshot(entries, loans)
}

func TestApproveHoldsComputer(t *testing.T) {
	f := newFixture(t)
	loan := submitted(t, f, f.ayu, f.pc01)

	res, err := f.svc.Approve(context.Background(), f.admin, loan.LoanULID)
	require.NoError(t, err)
	assert.Equal(t, "approved", res.Status)
	require.NotNil(t, res.DecidedBy)
	assert.Equal(t, "laboran", *res.DecidedBy)
	require.NotNil(t, res.DecidedAt)
	assert.Equal(t, now, *res.DecidedAt)

	entry, ok := f.dir.Schedule(f.pc01.ID, june10)
	require.True(t, ok)
	assert.False(t, entry.Available)
	assert.True(t, entry.HeldBy.Valid)
	assert.Equal(t, f.ayu.ID, entry.HeldBy.Int64)

	assert.False(t, snapshotFor(t, f).IsAvailable(f.pc01.ID, june10))
	assert.True(t, snapshotFor(t, f).IsAvailable(f.pc02.ID, june10))
}

func TestApproveByNumericID(t *testing.T) {
	f := newFixture(t)
	loan := submitted(t, f, f.ayu, f.pc01)

	res, err := f.svc.Approve(context.Background(), f.admin, strconv.FormatInt(loan.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, loan.LoanULID, res.LoanULID)
}

func TestRejectLeavesScheduleAlone(t *testing.T) {
	f := newFixture(t)
	loan := submitted(t, f, f.ayu, f.pc01)
	before, _ := f.dir.Schedule(f.pc01.ID, june10)

	res, err := f.svc.Reject(context.Background(), f.admin, loan.LoanULID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", res.Status)

	after, _ := f.dir.Schedule(f.pc01.ID, june10)
	assert.Equal(t, before, after)
	assert.True(t, snapshotFor(t, f).IsAvailable(f.pc01.ID, june10))
}

func TestSecondDecisionIsAlreadyResolved(t *testing.T) {
	type decideFn func(*Service) func(context.Context, directory.Identity, string) (LoanResponse, error)
	approve := decideFn(func(s *Service) func(context.Context, directory.Identity, string) (LoanResponse, error) { return s.Approve })
	reject := decideFn(func(s *Service) func(context.Context, directory.Identity, string) (LoanResponse, error) { return s.Reject })

	tests := []struct {
		name          string
		first, second decideFn
		want          directory.Status
	}{
		{"approve twice", approve, approve, directory.StatusApproved},
		{"reject twice", reject, reject, directory.StatusRejected},
		{"approve then reject", approve, reject, directory.StatusApproved},
		{"reject then approve", reject, approve, directory.StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			loan := submitted(t, f, f.ayu, f.pc01)
			ctx := context.Background()

			_, err := tt.first(f.svc)(ctx, f.admin, loan.LoanULID)
			require.NoError(t, err)
			schedBefore, _ := f.dir.Schedule(f.pc01.ID, june10)
			loansBefore := f.dir.Loans()

			_, err = tt.second(f.svc)(ctx, f.admin, loan.LoanULID)
			requireCode(t, err, CodeAlreadyResolved)

			schedAfter, _ := f.dir.Schedule(f.pc01.ID, june10)
			assert.Equal(t, schedBefore, schedAfter)
			assert.Equal(t, loansBefore, f.dir.Loans())
			assert.Equal(t, tt.want, f.dir.Loans()[0].Status)
		})
	}
}

func TestApproveOnTakenSlotRollsBack(t *testing.T) {
	f := newFixture(t)
	loan := submitted(t, f, f.ayu, f.pc01)
	// slot closed after the request was admitted
	f.dir.SetSchedule(f.pc01.ID, june10, false)

	_, err := f.svc.Approve(context.Background(), f.admin, loan.LoanULID)
	requireCode(t, err, CodeNotAvailable)

	stored := f.dir.Loans()
	require.Len(t, stored, 1)
	assert.Equal(t, directory.StatusPending, stored[0].Status)
	assert.False(t, stored[0].DecidedAt.Valid)
}

func TestDecideLookupErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Approve(ctx, f.admin, "12345")
	requireCode(t, err, CodeNotFound)

	_, err = f.svc.Approve(ctx, f.admin, "not-a-key")
	requireCode(t, err, CodeInvalidArgument)

	_, err = f.svc.Reject(ctx, f.admin, "-3")
	requireCode(t, err, CodeInvalidArgument)

	loan := submitted(t, f, f.ayu, f.pc01)
	_, err = f.svc.Approve(ctx, student(f.ayu), loan.LoanULID)
	requireCode(t, err, CodeForbidden)

	_, err = f.svc.Reject(ctx, directory.Identity{}, loan.LoanULID)
	requireCode(t, err, CodeUnauthenticated)
}

func TestApproveRacingConditionalUpdate(t *testing.T) {
	svc, dir := mockedService(t)

	pending := directory.LoanView{Loan: directory.Loan{
		ID: 7, ULID: "01J0000000000000000000000A", UserID: 1, ComputerID: 10,
		LoanDate: june10, Status: directory.StatusPending,
	}}
	dir.EXPECT().GetLoan(gomock.Any(), int64(7)).Return(pending, nil)
	dir.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, directory.Directory) error) error {
			return fn(ctx, dir)
		})
	// another admin resolved it between the read and the write
	dir.EXPECT().UpdateLoanStatus(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("update loan status: %w", directory.ErrNoMatch))

	admin := directory.Identity{ID: 99, Name: "laboran", Role: directory.RoleAdmin}
	_, err := svc.Approve(context.Background(), admin, "7")
	requireCode(t, err, CodeAlreadyResolved)
}

func TestApproveDirectoryUnavailable(t *testing.T) {
	svc, dir := mockedService(t)
	pending := directory.LoanView{Loan: directory.Loan{ID: 7, UserID: 1, ComputerID: 10, LoanDate: june10, Status: directory.StatusPending}}
	dir.EXPECT().GetLoan(gomock.Any(), int64(7)).Return(pending, nil)
	dir.EXPECT().WithinTx(gomock.Any(), gomock.Any()).
		Return(errors.Join(directory.ErrUnavailable, errors.New("tx: bad connection")))

	admin := directory.Identity{ID: 99, Name: "laboran", Role: directory.RoleAdmin}
	_, err := svc.Approve(context.Background(), admin, "7")
	requireCode(t, err, CodeDirectoryUnavailable)
}
