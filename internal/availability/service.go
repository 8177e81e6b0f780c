package availability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/logger"
)

// -------------- Error model & mapping --------------

type Code string

const (
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeUnauthenticated      Code = "UNAUTHENTICATED"
	CodeDirectoryUnavailable Code = "DIRECTORY_UNAVAILABLE"
	CodeInternal             Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string             { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError         { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrUnauthenticated(msg string) *APIError { return &APIError{Code: CodeUnauthenticated, Message: msg} }
func ErrUnavailable(msg string) *APIError     { return &APIError{Code: CodeDirectoryUnavailable, Message: msg} }
func ErrInternal(msg string) *APIError        { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeUnauthenticated:
			return http.StatusUnauthorized
		case CodeDirectoryUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

func mapDirectoryErr(op string, err error) error {
	if errors.Is(err, directory.ErrUnavailable) {
		logger.Warn().Err(err).Str("op", op).Msg("directory unavailable")
		return ErrUnavailable("directory service unavailable, try again")
	}
	logger.Error().Err(err).Str("op", op).Msg("directory call failed")
	return ErrInternal(op + " failed")
}

// -------------- Clock --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// LabResolver maps a program of study to the one lab it may book.
type LabResolver interface {
	AllowedLab(program string) (lab string, ok bool)
}

// -------------- Service --------------

type Service struct {
	dir   directory.Reader
	labs  LabResolver
	clock Clock
	loc   *time.Location
}

func NewService(dir directory.Reader, labs LabResolver, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{dir: dir, labs: labs, clock: realClock{}, loc: loc}
}

func (s *Service) today() time.Time {
	return directory.Day(s.clock.Now().In(s.loc))
}

// Board renders the availability of every computer the viewer may book on one date.
// An empty date means today. Admins see every lab.
func (s *Service) Board(ctx context.Context, date string, viewer directory.Identity) (BoardResponse, error) {
	day := s.today()
	if date != "" {
		d, err := directory.ParseDate(date)
		if err != nil {
			return BoardResponse{}, ErrInvalid("date must be YYYY-MM-DD")
		}
		day = d
	}
	if viewer.ID == 0 {
		return BoardResponse{}, ErrUnauthenticated("login required")
	}

	var (
		computers []directory.Computer
		entries   []directory.ScheduleEntry
		pending   []directory.LoanView
		user      directory.User
	)
	pendingStatus := directory.StatusPending
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		computers, err = s.dir.ListComputers(gctx)
		return wrapOp("list computers", err)
	})
	g.Go(func() (err error) {
		entries, err = s.dir.ListSchedule(gctx, directory.SingleDay(day))
		return wrapOp("list schedule", err)
	})
	g.Go(func() (err error) {
		pending, err = s.dir.ListLoans(gctx, directory.LoanFilter{Dates: []time.Time{day}, Status: &pendingStatus})
		return wrapOp("list loans", err)
	})
	if viewer.Role == directory.RoleStudent {
		g.Go(func() (err error) {
			user, err = s.dir.GetUser(gctx, viewer.ID)
			return wrapOp("get user", err)
		})
	}
	if err := g.Wait(); err != nil {
		var op *opError
		if errors.As(err, &op) && op.op == "get user" && errors.Is(err, directory.ErrNotFound) {
			return BoardResponse{}, ErrUnauthenticated("unknown user")
		}
		if errors.As(err, &op) {
			return BoardResponse{}, mapDirectoryErr(op.op, op.err)
		}
		return BoardResponse{}, mapDirectoryErr("board", err)
	}

	resp := BoardResponse{Date: directory.FormatDate(day), Computers: []ComputerCard{}}
	if viewer.Role == directory.RoleStudent && s.labs != nil {
		if lab, ok := s.labs.AllowedLab(user.Program); ok {
			resp.Lab = lab
		}
	}

	snap := NewSnapshot(entries, pending)
	sort.SliceStable(computers, func(i, j int) bool { return computers[i].Name < computers[j].Name })
	for _, c := range computers {
		if resp.Lab != "" && c.Location != resp.Lab {
			continue
		}
		card := ComputerCard{
			ComputerID: c.ID,
			Name:       c.Name,
			Location:   c.Location,
			Date:       resp.Date,
			Available:  snap.IsAvailable(c.ID, day),
			Pending:    snap.Pending(c.ID, day),
		}
		switch {
		case card.Available:
			card.State = StateAvailable
			resp.Stats.Available++
		case card.Pending:
			card.State = StatePending
			resp.Stats.Pending++
		default:
			card.State = StateUnavailable
			resp.Stats.Unavailable++
		}
		resp.Stats.Total++
		resp.Computers = append(resp.Computers, card)
	}
	return resp, nil
}

type opError struct {
	op  string
	err error
}

func (e *opError) Error() string { return e.op + ": " + e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, err: err}
}
