package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// RegisterRoutes expects r to sit behind auth.RequireRole(directory.RoleAdmin).
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/admin/computers", h.ListComputers)
	r.POST("/admin/computers", h.CreateComputer)
	r.PUT("/admin/schedule", h.SetSchedule)
}

// ---------- handlers ----------

// ListComputers godoc
// @Summary  List computers
// @Tags     catalog
// @Produce  json
// @Security BearerAuth
// @Param    location query string false "exact lab name"
// @Success  200 {array} ComputerResponse
// @Failure  503 {object} errorDTO
// @Router   /admin/computers [get]
func (h *Handler) ListComputers(c *gin.Context) {
	res, err := h.svc.ListComputers(c.Request.Context(), c.Query("location"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateComputer godoc
// @Summary  Register a computer
// @Tags     catalog
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body CreateComputerRequest true "computer"
// @Success  201 {object} ComputerResponse
// @Failure  400 {object} errorDTO
// @Failure  409 {object} errorDTO
// @Router   /admin/computers [post]
func (h *Handler) CreateComputer(c *gin.Context) {
	var req CreateComputerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, err.Error()))
		return
	}
	res, err := h.svc.CreateComputer(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

// SetSchedule godoc
// @Summary  Open or close computers for a date range
// @Tags     catalog
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body SetScheduleRequest true "selection and state"
// @Success  200 {object} ScheduleResult
// @Failure  400 {object} errorDTO
// @Failure  404 {object} errorDTO
// @Router   /admin/schedule [put]
func (h *Handler) SetSchedule(c *gin.Context) {
	var req SetScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, err.Error()))
		return
	}
	res, err := h.svc.SetSchedule(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
