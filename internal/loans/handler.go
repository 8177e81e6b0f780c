package loans

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"labloan-backend/internal/directory"
	"labloan-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterStudentRoutes expects r to require the student role.
func RegisterStudentRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.POST("/loans", h.Submit)
	r.GET("/loans/mine", h.MyLoans)
}

// RegisterAdminRoutes expects r to require the admin role.
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/admin/loans", h.Review)
	r.GET("/admin/loans/:key", h.GetLoan)
	r.POST("/admin/loans/:key/approve", h.Approve)
	r.POST("/admin/loans/:key/reject", h.Reject)
}

// ---------- handlers ----------

// Submit godoc
// @Summary  Request a computer for one date
// @Tags     loans
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body SubmitLoanRequest true "loan request"
// @Success  201 {object} LoanResponse
// @Failure  403 {object} errorDTO "WRONG_LAB"
// @Failure  409 {object} errorDTO "NOT_AVAILABLE, DUPLICATE_REQUEST, CONSTRAINT_VIOLATION"
// @Router   /loans [post]
func (h *Handler) Submit(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody(CodeUnauthenticated, "login required"))
		return
	}
	var req SubmitLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), p, req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.Header("Location", "/loans/"+res.LoanULID)
	c.JSON(http.StatusCreated, res)
}

// MyLoans godoc
// @Summary  The caller's own loan requests
// @Tags     loans
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} LoanListResponse
// @Router   /loans/mine [get]
func (h *Handler) MyLoans(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody(CodeUnauthenticated, "login required"))
		return
	}
	res, err := h.svc.MyLoans(c.Request.Context(), p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// Review godoc
// @Summary  Loan requests for review, pending first
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Param    date   query string false "YYYY-MM-DD; overrides days"
// @Param    days   query int    false "days starting today (default 7)"
// @Param    status query string false "pending | approved | rejected"
// @Success  200 {object} LoanListResponse
// @Router   /admin/loans [get]
func (h *Handler) Review(c *gin.Context) {
	q := ReviewQuery{
		Date:   c.Query("date"),
		Days:   parseIntDefault(c.Query("days"), 0),
		Status: c.Query("status"),
	}
	res, err := h.svc.Review(c.Request.Context(), q)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetLoan godoc
// @Summary  One loan by numeric id or ULID
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Param    key path string true "id or ULID"
// @Success  200 {object} LoanResponse
// @Failure  404 {object} errorDTO
// @Router   /admin/loans/{key} [get]
func (h *Handler) GetLoan(c *gin.Context) {
	res, err := h.svc.GetLoan(c.Request.Context(), c.Param("key"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// Approve godoc
// @Summary  Approve a pending loan and hold the computer
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Param    key path string true "id or ULID"
// @Success  200 {object} LoanResponse
// @Failure  409 {object} errorDTO "ALREADY_RESOLVED, NOT_AVAILABLE"
// @Router   /admin/loans/{key}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.svc.Approve)
}

// Reject godoc
// @Summary  Reject a pending loan
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Param    key path string true "id or ULID"
// @Success  200 {object} LoanResponse
// @Failure  409 {object} errorDTO "ALREADY_RESOLVED"
// @Router   /admin/loans/{key}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.svc.Reject)
}

type decideFunc func(ctx context.Context, admin directory.Identity, key string) (LoanResponse, error)

func (h *Handler) decide(c *gin.Context, fn decideFunc) {
	admin, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody(CodeUnauthenticated, "login required"))
		return
	}
	res, err := fn(c.Request.Context(), admin, c.Param("key"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error struct {
		Code       Code   `json:"code"`
		Message    string `json:"message"`
		AllowedLab string `json:"allowed_lab,omitempty"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var api *APIError
	if errors.As(err, &api) {
		e := errorBody(api.Code, api.Message)
		e.Error.AllowedLab = api.AllowedLab
		return e
	}
	return errorBody(CodeInternal, err.Error())
}
