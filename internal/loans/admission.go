package loans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"labloan-backend/internal/availability"
	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/logger"
)

// POST /loans
//
// Checks run in a fixed order and each failure has its own code:
// authentication, input, lab restriction, slot availability, duplicate request.
// The unique keys on the loans table settle races that slip past the reads.
func (s *Service) Submit(ctx context.Context, p directory.Identity, in SubmitLoanRequest) (LoanResponse, error) {
	if p.ID == 0 || p.Role != directory.RoleStudent {
		return LoanResponse{}, ErrUnauthenticated("student login required")
	}
	if in.ComputerID <= 0 {
		return LoanResponse{}, ErrInvalid("computer_id must be > 0")
	}
	date, err := directory.ParseDate(in.LoanDate)
	if err != nil {
		return LoanResponse{}, ErrInvalid("loan_date must be YYYY-MM-DD")
	}
	today := s.today()
	last := today.AddDate(0, 0, s.opts.WindowDays)
	if date.Before(today) || date.After(last) {
		return LoanResponse{}, ErrInvalid(fmt.Sprintf("loan_date must be between %s and %s",
			directory.FormatDate(today), directory.FormatDate(last)))
	}

	// 1. program comes from the directory, not the token
	user, err := s.dir.GetUser(ctx, p.ID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return LoanResponse{}, ErrUnauthenticated("unknown user")
		}
		return LoanResponse{}, directoryErr("get user", err)
	}

	// 2. lab restriction
	comp, err := s.dir.GetComputer(ctx, in.ComputerID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return LoanResponse{}, ErrNotFound("computer not found")
		}
		return LoanResponse{}, directoryErr("get computer", err)
	}
	if lab, ok := s.labs.AllowedLab(user.Program); ok {
		if comp.Location != lab {
			return LoanResponse{}, ErrWrongLab(lab)
		}
	} else {
		logger.Warn().
			Int64("user_id", user.ID).
			Str("program", user.Program).
			Str("lab", comp.Location).
			Msg("program has no lab mapping, admitting without lab restriction")
	}

	// 3. slot availability
	entry, err := s.dir.GetSchedule(ctx, comp.ID, date)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return LoanResponse{}, ErrNotAvailable("computer is not scheduled on that date")
		}
		return LoanResponse{}, directoryErr("get schedule", err)
	}
	pendingStatus := directory.StatusPending
	pending, err := s.dir.ListLoans(ctx, directory.LoanFilter{
		Dates:      []time.Time{date},
		Status:     &pendingStatus,
		ComputerID: &comp.ID,
	})
	if err != nil {
		return LoanResponse{}, directoryErr("list loans", err)
	}
	if !availability.IsAvailable(entry, availability.NewPendingSet(pending)) {
		return LoanResponse{}, ErrNotAvailable("computer is not available on that date")
	}

	// 4. one live request per user and day
	rejected := directory.StatusRejected
	mine, err := s.dir.ListLoans(ctx, directory.LoanFilter{
		Dates:         []time.Time{date},
		UserID:        &user.ID,
		ExcludeStatus: &rejected,
	})
	if err != nil {
		return LoanResponse{}, directoryErr("list loans", err)
	}
	if len(mine) > 0 {
		return LoanResponse{}, ErrDuplicate("you already have a request for that date")
	}

	now := s.clock.Now()
	loan, err := s.dir.InsertLoan(ctx, directory.NewLoan{
		ULID:       s.id.NewULID(now),
		UserID:     user.ID,
		ComputerID: comp.ID,
		LoanDate:   date,
		CreatedAt:  now,
	})
	if err != nil {
		return LoanResponse{}, insertErr(err)
	}

	logger.Info().
		Str("loan_ulid", loan.ULID).
		Int64("user_id", user.ID).
		Int64("computer_id", comp.ID).
		Str("loan_date", directory.FormatDate(date)).
		Msg("loan requested")

	return toResponse(directory.LoanView{
		Loan:         loan,
		ComputerName: comp.Name,
		Location:     comp.Location,
		UserName:     user.Name,
		UserNIM:      user.NIM,
	}), nil
}

// insertErr maps a lost race on the loans unique keys.
func insertErr(err error) error {
	var ce *directory.ConstraintError
	if !errors.As(err, &ce) {
		return directoryErr("insert loan", err)
	}
	switch ce.Constraint {
	case directory.ConstraintPendingSlot:
		return ErrNotAvailable("computer was just requested by someone else")
	case directory.ConstraintActiveUserDay:
		return ErrDuplicate("you already have a request for that date")
	default:
		logger.Warn().Err(err).Str("constraint", ce.Constraint).Msg("loan insert rejected by constraint")
		return ErrConstraint("request conflicted with another change, reload and try again")
	}
}
