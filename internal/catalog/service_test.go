package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/directory/directorytest"
	"labloan-backend/internal/directory/mock"
)

var june10 = time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

func boolPtr(b bool) *bool { return &b }

type fixture struct {
	svc  *Service
	dir  *directorytest.Directory
	pc01 directory.Computer
	pc02 directory.Computer
	pc09 directory.Computer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := directorytest.New()
	f := &fixture{
		dir:  dir,
		pc01: dir.AddComputer("PC-01", "Lab Komputer Sains Data"),
		pc02: dir.AddComputer("PC-02", "Lab Komputer Sains Data"),
		pc09: dir.AddComputer("PC-09", "Lab AI & Robotik"),
	}
	f.svc = NewService(dir)
	return f
}

func TestListComputers(t *testing.T) {
	f := newFixture(t)

	all, err := f.svc.ListComputers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	lab, err := f.svc.ListComputers(context.Background(), " Lab AI & Robotik ")
	require.NoError(t, err)
	require.Len(t, lab, 1)
	assert.Equal(t, "PC-09", lab[0].Name)
}

func TestCreateComputer(t *testing.T) {
	f := newFixture(t)

	c, err := f.svc.CreateComputer(context.Background(), CreateComputerRequest{Name: " PC-03 ", Location: "Lab Komputer Sains Data"})
	require.NoError(t, err)
	assert.Equal(t, "PC-03", c.Name)
	assert.NotZero(t, c.ID)

	_, err = f.svc.CreateComputer(context.Background(), CreateComputerRequest{Name: "PC-01", Location: "Lab AI & Robotik"})
	assert.Equal(t, http.StatusConflict, ToHTTPStatus(err))

	_, err = f.svc.CreateComputer(context.Background(), CreateComputerRequest{Name: "  ", Location: "x"})
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(err))

	_, err = f.svc.CreateComputer(context.Background(), CreateComputerRequest{Name: "PC-04"})
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(err))
}

func TestSetScheduleByLocation(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.SetSchedule(context.Background(), SetScheduleRequest{
		Location:  "Lab Komputer Sains Data",
		From:      "2024-06-10",
		To:        "2024-06-12",
		Available: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, ScheduleResult{From: "2024-06-10", To: "2024-06-12", Available: true, Computers: 2, Slots: 6}, res)

	for _, c := range []directory.Computer{f.pc01, f.pc02} {
		for d := 0; d < 3; d++ {
			e, ok := f.dir.Schedule(c.ID, june10.AddDate(0, 0, d))
			require.True(t, ok)
			assert.True(t, e.Available)
		}
	}
	_, ok := f.dir.Schedule(f.pc09.ID, june10)
	assert.False(t, ok)
}

func TestSetScheduleKeepsHeldSlots(t *testing.T) {
	f := newFixture(t)
	f.dir.SetSchedule(f.pc01.ID, june10, true)
	held := int64(77)
	require.NoError(t, f.dir.UpdateSchedule(context.Background(), directory.ScheduleUpdate{
		ComputerID: f.pc01.ID, Date: june10, Available: false, HeldBy: &held, OnlyIfFree: true,
	}))

	_, err := f.svc.SetSchedule(context.Background(), SetScheduleRequest{
		ComputerIDs: []int64{f.pc01.ID, f.pc02.ID, f.pc01.ID},
		From:        "2024-06-10",
		Available:   boolPtr(true),
	})
	require.NoError(t, err)

	e, _ := f.dir.Schedule(f.pc01.ID, june10)
	assert.False(t, e.Available)
	assert.Equal(t, held, e.HeldBy.Int64)
	e, _ = f.dir.Schedule(f.pc02.ID, june10)
	assert.True(t, e.Available)
}

func TestSetScheduleCloses(t *testing.T) {
	f := newFixture(t)
	f.dir.SetSchedule(f.pc09.ID, june10, true)

	_, err := f.svc.SetSchedule(context.Background(), SetScheduleRequest{
		ComputerIDs: []int64{f.pc09.ID},
		From:        "2024-06-10",
		Available:   boolPtr(false),
	})
	require.NoError(t, err)
	e, _ := f.dir.Schedule(f.pc09.ID, june10)
	assert.False(t, e.Available)
}

func TestSetScheduleInvalid(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		req  SetScheduleRequest
		want int
	}{
		{"missing available", SetScheduleRequest{From: "2024-06-10"}, http.StatusBadRequest},
		{"bad from", SetScheduleRequest{From: "10/06/2024", Available: boolPtr(true)}, http.StatusBadRequest},
		{"bad to", SetScheduleRequest{From: "2024-06-10", To: "soon", Available: boolPtr(true)}, http.StatusBadRequest},
		{"reversed", SetScheduleRequest{From: "2024-06-10", To: "2024-06-09", Available: boolPtr(true)}, http.StatusBadRequest},
		{"too long", SetScheduleRequest{From: "2024-06-01", To: "2024-07-02", Available: boolPtr(true)}, http.StatusBadRequest},
		{"negative id", SetScheduleRequest{ComputerIDs: []int64{-1}, From: "2024-06-10", Available: boolPtr(true)}, http.StatusBadRequest},
		{"unknown id", SetScheduleRequest{ComputerIDs: []int64{999}, From: "2024-06-10", Available: boolPtr(true)}, http.StatusNotFound},
		{"unknown location", SetScheduleRequest{Location: "Lab Fisika", From: "2024-06-10", Available: boolPtr(true)}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SetSchedule(context.Background(), tt.req)
			assert.Equal(t, tt.want, ToHTTPStatus(err))
		})
	}

	// a full month is accepted
	_, err := f.svc.SetSchedule(context.Background(), SetScheduleRequest{From: "2024-07-01", To: "2024-07-31", Available: boolPtr(true)})
	assert.NoError(t, err)
}

func TestSetScheduleRollsBackOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mock.NewMockDirectory(ctrl)
	down := errors.Join(directory.ErrUnavailable, errors.New("connection reset"))

	dir.EXPECT().GetComputer(gomock.Any(), int64(1)).Return(directory.Computer{ID: 1}, nil)
	dir.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, directory.Directory) error) error {
			return fn(ctx, dir)
		})
	dir.EXPECT().SetAvailability(gomock.Any(), int64(1), june10, true).Return(nil)
	dir.EXPECT().SetAvailability(gomock.Any(), int64(1), june10.AddDate(0, 0, 1), true).Return(down)

	_, err := NewService(dir).SetSchedule(context.Background(), SetScheduleRequest{
		ComputerIDs: []int64{1}, From: "2024-06-10", To: "2024-06-12", Available: boolPtr(true),
	})
	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeDirectoryUnavailable, api.Code)
}

func TestHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	r := gin.New()
	RegisterRoutes(r, f.svc)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/admin/computers?location=Lab+AI+%26+Robotik", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"PC-09"`)

	w = do(http.MethodPost, "/admin/computers", `{"name":"PC-10","location":"Lab AI & Robotik"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(http.MethodPost, "/admin/computers", `{"name":"PC-10","location":"Lab AI & Robotik"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"CONFLICT"`)

	w = do(http.MethodPut, "/admin/schedule", `{"from":"2024-06-10","available":false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"slots":4`)

	w = do(http.MethodPut, "/admin/schedule", `{"from":"2024-06-10"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetScheduleServerErrorIsInternal(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := mock.NewMockDirectory(ctrl)
	fk := fmt.Errorf("set availability: %w", &mysql.MySQLError{Number: 1452, Message: "a foreign key constraint fails"})

	dir.EXPECT().GetComputer(gomock.Any(), int64(1)).Return(directory.Computer{ID: 1}, nil)
	dir.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, directory.Directory) error) error {
			return fn(ctx, dir)
		})
	dir.EXPECT().SetAvailability(gomock.Any(), int64(1), june10, false).Return(fk)

	_, err := NewService(dir).SetSchedule(context.Background(), SetScheduleRequest{
		ComputerIDs: []int64{1}, From: "2024-06-10", Available: boolPtr(false),
	})
	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, CodeInternal, api.Code)
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(err))
}
