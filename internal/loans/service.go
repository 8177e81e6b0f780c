package loans

import (
	"context"
	"crypto/rand"
	"errors"
	"sort"
	"strconv"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"labloan-backend/internal/directory"
)

// -------------- Clock & ID --------------

type Clock interface{ Now() time.Time }
type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }
type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// -------------- Service --------------

type Options struct {
	// WindowDays is how far past today a loan may be booked.
	WindowDays int
	// Location decides the calendar date of "today".
	Location *time.Location
}

type Service struct {
	dir   directory.Directory
	labs  LabMap
	opts  Options
	clock Clock
	id    IDGen
}

func NewService(dir directory.Directory, labs LabMap, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{
		dir:   dir,
		labs:  labs,
		opts:  opts,
		clock: realClock{},
		id:    ulidGen{},
	}
}

func (s *Service) today() time.Time {
	return directory.Day(s.clock.Now().In(s.opts.Location))
}

// GET /admin/loans
func (s *Service) Review(ctx context.Context, q ReviewQuery) (LoanListResponse, error) {
	f := directory.LoanFilter{}
	if q.Date != "" {
		d, err := directory.ParseDate(q.Date)
		if err != nil {
			return LoanListResponse{}, ErrInvalid("date must be YYYY-MM-DD")
		}
		f.Dates = []time.Time{d}
	} else {
		days := q.Days
		if days == 0 {
			days = DefaultReviewDays
		}
		if days < 1 || days > MaxReviewDays {
			return LoanListResponse{}, ErrInvalid("days must be between 1 and " + strconv.Itoa(MaxReviewDays))
		}
		from := s.today()
		f.Range = &directory.DateRange{From: from, To: from.AddDate(0, 0, days-1)}
	}
	if q.Status != "" {
		st, err := directory.ParseStatus(q.Status)
		if err != nil {
			return LoanListResponse{}, ErrInvalid("status must be pending, approved or rejected")
		}
		f.Status = &st
	}

	views, err := s.dir.ListLoans(ctx, f)
	if err != nil {
		return LoanListResponse{}, directoryErr("list loans", err)
	}
	SortForReview(views)
	return toListResponse(views), nil
}

// SortForReview moves pending loans ahead of resolved ones and keeps the query order otherwise.
func SortForReview(views []directory.LoanView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Status == directory.StatusPending && views[j].Status != directory.StatusPending
	})
}

// GET /loans/mine
func (s *Service) MyLoans(ctx context.Context, p directory.Identity) (LoanListResponse, error) {
	if p.ID == 0 {
		return LoanListResponse{}, ErrUnauthenticated("login required")
	}
	uid := p.ID
	views, err := s.dir.ListLoans(ctx, directory.LoanFilter{UserID: &uid})
	if err != nil {
		return LoanListResponse{}, directoryErr("list loans", err)
	}
	// newest date first for the student's own history
	sort.SliceStable(views, func(i, j int) bool { return views[i].LoanDate.After(views[j].LoanDate) })
	return toListResponse(views), nil
}

// GET /admin/loans/:key
func (s *Service) GetLoan(ctx context.Context, key string) (LoanResponse, error) {
	v, err := s.lookup(ctx, s.dir, key)
	if err != nil {
		return LoanResponse{}, err
	}
	return toResponse(v), nil
}

// lookup resolves a numeric id or a ULID.
func (s *Service) lookup(ctx context.Context, r directory.Reader, key string) (directory.LoanView, error) {
	var (
		v   directory.LoanView
		err error
	)
	if id, perr := strconv.ParseInt(key, 10, 64); perr == nil {
		if id <= 0 {
			return directory.LoanView{}, ErrInvalid("loan id must be > 0")
		}
		v, err = r.GetLoan(ctx, id)
	} else {
		if _, perr := ulid.ParseStrict(key); perr != nil {
			return directory.LoanView{}, ErrInvalid("loan key must be a numeric id or a ULID")
		}
		v, err = r.GetLoanByULID(ctx, key)
	}
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return directory.LoanView{}, ErrNotFound("loan not found")
		}
		return directory.LoanView{}, directoryErr("get loan", err)
	}
	return v, nil
}
