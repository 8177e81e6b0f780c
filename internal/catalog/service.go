package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/logger"
)

// MaxScheduleDays bounds one schedule update.
const MaxScheduleDays = 31

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument      Code = "INVALID_ARGUMENT"
	CodeNotFound             Code = "NOT_FOUND"
	CodeConflict             Code = "CONFLICT"
	CodeDirectoryUnavailable Code = "DIRECTORY_UNAVAILABLE"
	CodeInternal             Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string         { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError     { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError    { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError    { return &APIError{Code: CodeConflict, Message: msg} }
func ErrUnavailable(msg string) *APIError { return &APIError{Code: CodeDirectoryUnavailable, Message: msg} }
func ErrInternal(msg string) *APIError    { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeDirectoryUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}

func directoryErr(op string, err error) *APIError {
	var api *APIError
	if errors.As(err, &api) {
		return api
	}
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return ErrNotFound(op + ": not found")
	case errors.Is(err, directory.ErrUnavailable):
		logger.Warn().Err(err).Str("op", op).Msg("directory unavailable")
		return ErrUnavailable("directory service unavailable, try again")
	}
	logger.Error().Err(err).Str("op", op).Msg("directory call failed")
	return ErrInternal(op + " failed")
}

type Service struct {
	dir directory.Directory
}

func NewService(dir directory.Directory) *Service { return &Service{dir: dir} }

// ===== computers =====

func (s *Service) ListComputers(ctx context.Context, location string) ([]ComputerResponse, error) {
	cs, err := s.dir.ListComputers(ctx)
	if err != nil {
		return nil, directoryErr("list computers", err)
	}
	location = strings.TrimSpace(location)
	out := make([]ComputerResponse, 0, len(cs))
	for _, c := range cs {
		if location != "" && c.Location != location {
			continue
		}
		out = append(out, toComputerResponse(c))
	}
	return out, nil
}

func (s *Service) CreateComputer(ctx context.Context, req CreateComputerRequest) (ComputerResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ComputerResponse{}, ErrInvalid("name is required")
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		return ComputerResponse{}, ErrInvalid("location is required")
	}

	c, err := s.dir.InsertComputer(ctx, name, location)
	if err != nil {
		var ce *directory.ConstraintError
		if errors.As(err, &ce) {
			return ComputerResponse{}, ErrConflict("computer name already exists")
		}
		return ComputerResponse{}, directoryErr("insert computer", err)
	}
	logger.Info().Int64("computer_id", c.ID).Str("name", c.Name).Str("location", c.Location).Msg("computer created")
	return toComputerResponse(c), nil
}

// ===== schedule =====

// SetSchedule opens or closes every selected computer on every date of the
// range. Dates held by an approved loan are left as they are.
func (s *Service) SetSchedule(ctx context.Context, req SetScheduleRequest) (ScheduleResult, error) {
	if req.Available == nil {
		return ScheduleResult{}, ErrInvalid("available is required")
	}
	from, err := directory.ParseDate(req.From)
	if err != nil {
		return ScheduleResult{}, ErrInvalid("from must be YYYY-MM-DD")
	}
	to := from
	if strings.TrimSpace(req.To) != "" {
		if to, err = directory.ParseDate(req.To); err != nil {
			return ScheduleResult{}, ErrInvalid("to must be YYYY-MM-DD")
		}
	}
	if to.Before(from) {
		return ScheduleResult{}, ErrInvalid("to must not be before from")
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days > MaxScheduleDays {
		return ScheduleResult{}, ErrInvalid(fmt.Sprintf("range must not exceed %d days", MaxScheduleDays))
	}

	ids, err := s.targets(ctx, req)
	if err != nil {
		return ScheduleResult{}, err
	}
	if len(ids) == 0 {
		return ScheduleResult{}, ErrNotFound("no computers matched")
	}

	err = s.dir.WithinTx(ctx, func(ctx context.Context, tx directory.Directory) error {
		for _, id := range ids {
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				if err := tx.SetAvailability(ctx, id, d, *req.Available); err != nil {
					return directoryErr("set availability", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return ScheduleResult{}, directoryErr("set schedule", err)
	}

	logger.Info().
		Int("computers", len(ids)).
		Str("from", directory.FormatDate(from)).
		Str("to", directory.FormatDate(to)).
		Bool("available", *req.Available).
		Msg("schedule updated")
	return ScheduleResult{
		From:      directory.FormatDate(from),
		To:        directory.FormatDate(to),
		Available: *req.Available,
		Computers: len(ids),
		Slots:     len(ids) * days,
	}, nil
}

func (s *Service) targets(ctx context.Context, req SetScheduleRequest) ([]int64, error) {
	if len(req.ComputerIDs) > 0 {
		seen := make(map[int64]bool, len(req.ComputerIDs))
		ids := make([]int64, 0, len(req.ComputerIDs))
		for _, id := range req.ComputerIDs {
			if id <= 0 {
				return nil, ErrInvalid("computer_ids must be positive")
			}
			if seen[id] {
				continue
			}
			if _, err := s.dir.GetComputer(ctx, id); err != nil {
				if errors.Is(err, directory.ErrNotFound) {
					return nil, ErrNotFound(fmt.Sprintf("computer %d not found", id))
				}
				return nil, directoryErr("get computer", err)
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return ids, nil
	}

	cs, err := s.ListComputers(ctx, req.Location)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
