package loans

import (
	"context"
	"database/sql"
	"errors"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/logger"
)

// POST /admin/loans/:key/approve
//
// The status change and the schedule hold commit together or not at all.
func (s *Service) Approve(ctx context.Context, admin directory.Identity, key string) (LoanResponse, error) {
	return s.decide(ctx, admin, key, directory.StatusApproved)
}

// POST /admin/loans/:key/reject
//
// Rejecting never touches the schedule.
func (s *Service) Reject(ctx context.Context, admin directory.Identity, key string) (LoanResponse, error) {
	return s.decide(ctx, admin, key, directory.StatusRejected)
}

func (s *Service) decide(ctx context.Context, admin directory.Identity, key string, to directory.Status) (LoanResponse, error) {
	if admin.ID == 0 {
		return LoanResponse{}, ErrUnauthenticated("admin login required")
	}
	if admin.Role != directory.RoleAdmin {
		return LoanResponse{}, ErrForbidden("only administrators decide loans")
	}

	loan, err := s.lookup(ctx, s.dir, key)
	if err != nil {
		return LoanResponse{}, err
	}
	if loan.Status.Terminal() {
		return LoanResponse{}, ErrAlreadyResolved("loan is already " + string(loan.Status))
	}

	decidedBy := admin.Name
	if decidedBy == "" {
		decidedBy = admin.Identifier
	}
	now := s.clock.Now()

	err = s.dir.WithinTx(ctx, func(ctx context.Context, d directory.Directory) error {
		if err := d.UpdateLoanStatus(ctx, directory.StatusUpdate{
			LoanID:    loan.ID,
			To:        to,
			Expected:  directory.StatusPending,
			DecidedBy: decidedBy,
			DecidedAt: now,
		}); err != nil {
			if errors.Is(err, directory.ErrNoMatch) {
				return ErrAlreadyResolved("loan was resolved by another request")
			}
			return err
		}
		if to != directory.StatusApproved {
			return nil
		}
		holder := loan.UserID
		if err := d.UpdateSchedule(ctx, directory.ScheduleUpdate{
			ComputerID: loan.ComputerID,
			Date:       loan.LoanDate,
			Available:  false,
			HeldBy:     &holder,
			OnlyIfFree: true,
		}); err != nil {
			if errors.Is(err, directory.ErrNoMatch) {
				return ErrNotAvailable("computer is no longer available on that date")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return LoanResponse{}, directoryErr("decide loan", err)
	}

	loan.Status = to
	loan.DecidedAt = sql.NullTime{Time: now, Valid: true}
	loan.DecidedBy = sql.NullString{String: decidedBy, Valid: true}

	logger.Info().
		Str("loan_ulid", loan.ULID).
		Str("status", string(to)).
		Str("decided_by", decidedBy).
		Msg("loan decided")

	return toResponse(loan), nil
}
