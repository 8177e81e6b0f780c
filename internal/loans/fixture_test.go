package loans

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/directory/directorytest"
)

const (
	labSainsData = "Lab Komputer Sains Data"
	labAI        = "Lab AI & Robotik"
)

var (
	june10 = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	// the day before, mid-morning Jakarta time
	now = time.Date(2024, 6, 9, 2, 30, 0, 0, time.UTC)
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type fixture struct {
	svc   *Service
	dir   *directorytest.Directory
	pc01  directory.Computer
	pc02  directory.Computer
	pc09  directory.Computer
	ayu   directory.User
	budi  directory.User
	admin directory.Identity
}

func testLabMap() LabMap {
	return NewLabMap(map[string]string{
		"Sains Data Terapan": labSainsData,
		"AI dan Robotik":     labAI,
	})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := directorytest.New()
	f := &fixture{
		dir:  dir,
		pc01: dir.AddComputer("PC-01", labSainsData),
		pc02: dir.AddComputer("PC-02", labSainsData),
		pc09: dir.AddComputer("PC-09", labAI),
		ayu:  dir.AddUser("A123", "Ayu", "Sains Data Terapan", "pw"),
		budi: dir.AddUser("B456", "Budi", "Sains Data Terapan", "pw"),
	}
	adminID := dir.AddAdmin("laboran", "pw")
	f.admin = directory.Identity{ID: adminID, Identifier: "laboran", Name: "laboran", Role: directory.RoleAdmin}
	for _, c := range []directory.Computer{f.pc01, f.pc02, f.pc09} {
		dir.SetSchedule(c.ID, june10, true)
	}

	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	f.svc = NewService(dir, testLabMap(), Options{WindowDays: 7, Location: loc})
	f.svc.clock = fixedClock(now)
	return f
}

func student(u directory.User) directory.Identity {
	return directory.Identity{ID: u.ID, Identifier: u.NIM, Name: u.Name, Role: directory.RoleStudent}
}

func submitReq(c directory.Computer, date string) SubmitLoanRequest {
	return SubmitLoanRequest{ComputerID: c.ID, LoanDate: date}
}

func requireCode(t *testing.T, err error, code Code) *APIError {
	t.Helper()
	require.Error(t, err)
	var api *APIError
	require.True(t, errors.As(err, &api), "want *APIError, got %T: %v", err, err)
	require.Equal(t, code, api.Code, api.Message)
	return api
}
