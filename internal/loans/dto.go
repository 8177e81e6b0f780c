package loans

import (
	"time"

	"labloan-backend/internal/directory"
)

const (
	DefaultReviewDays = 7
	MaxReviewDays     = 31
)

type SubmitLoanRequest struct {
	ComputerID int64  `json:"computer_id" binding:"required"`
	LoanDate   string `json:"loan_date" binding:"required"` // YYYY-MM-DD
}

type LoanResponse struct {
	ID           int64      `json:"id"`
	LoanULID     string     `json:"loan_ulid"`
	ComputerID   int64      `json:"computer_id"`
	ComputerName string     `json:"computer_name"`
	Location     string     `json:"location"`
	UserID       int64      `json:"user_id"`
	UserName     string     `json:"user_name"`
	UserNIM      string     `json:"user_nim"`
	LoanDate     string     `json:"loan_date"` // YYYY-MM-DD
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	DecidedBy    *string    `json:"decided_by,omitempty"`
}

type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
	Count int            `json:"count"`
}

// ReviewQuery selects one Date, or Days days starting today when Date is empty.
type ReviewQuery struct {
	Date   string
	Days   int
	Status string
}

func toResponse(v directory.LoanView) LoanResponse {
	r := LoanResponse{
		ID:           v.ID,
		LoanULID:     v.ULID,
		ComputerID:   v.ComputerID,
		ComputerName: v.ComputerName,
		Location:     v.Location,
		UserID:       v.UserID,
		UserName:     v.UserName,
		UserNIM:      v.UserNIM,
		LoanDate:     directory.FormatDate(v.LoanDate),
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt.UTC(),
	}
	if v.DecidedAt.Valid {
		t := v.DecidedAt.Time.UTC()
		r.DecidedAt = &t
	}
	if v.DecidedBy.Valid {
		s := v.DecidedBy.String
		r.DecidedBy = &s
	}
	return r
}

func toListResponse(views []directory.LoanView) LoanListResponse {
	items := make([]LoanResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toResponse(v))
	}
	return LoanListResponse{Items: items, Count: len(items)}
}
