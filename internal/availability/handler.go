package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labloan-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

// RegisterRoutes expects r to sit behind auth.RequireAuth.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/availability", h.GetBoard)
}

// ---------- handlers ----------

// GetBoard godoc
// @Summary  Computer availability for one date
// @Tags     availability
// @Produce  json
// @Security BearerAuth
// @Param    date query string false "YYYY-MM-DD, defaults to today"
// @Success  200 {object} BoardResponse
// @Failure  400 {object} errorDTO
// @Failure  503 {object} errorDTO
// @Router   /availability [get]
func (h *Handler) GetBoard(c *gin.Context) {
	viewer, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody(CodeUnauthenticated, "login required"))
		return
	}
	res, err := h.svc.Board(c.Request.Context(), c.Query("date"), viewer)
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
