package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &AuthHandler{svc: svc}
	r.POST("/auth/student/login", h.StudentLogin)
	r.POST("/auth/admin/login", h.AdminLogin)
}

type StudentLoginRequest struct {
	NIM      string `json:"nim" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type StudentDTO struct {
	ID      int64  `json:"id"`
	NIM     string `json:"nim"`
	Name    string `json:"name"`
	Program string `json:"program"`
}

type AdminDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type StudentLoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      StudentDTO `json:"user"`
}

type AdminLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     AdminDTO  `json:"admin"`
}

// StudentLogin godoc
// @Summary  Student login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body StudentLoginRequest true "credentials"
// @Success  200 {object} StudentLoginResponse
// @Failure  401 {object} map[string]any
// @Router   /auth/student/login [post]
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req StudentLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_ARGUMENT", "nim and password are required")
		return
	}
	sess, err := h.svc.LoginStudent(c.Request.Context(), req.NIM, req.Password)
	if err != nil {
		loginError(c, err)
		return
	}
	c.JSON(http.StatusOK, StudentLoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UTC(),
		User: StudentDTO{
			ID:      sess.Identity.ID,
			NIM:     sess.Identity.Identifier,
			Name:    sess.Identity.Name,
			Program: sess.Identity.Program,
		},
	})
}

// AdminLogin godoc
// @Summary  Administrator login
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body AdminLoginRequest true "credentials"
// @Success  200 {object} AdminLoginResponse
// @Failure  401 {object} map[string]any
// @Router   /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "INVALID_ARGUMENT", "name and password are required")
		return
	}
	sess, err := h.svc.LoginAdmin(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		loginError(c, err)
		return
	}
	c.JSON(http.StatusOK, AdminLoginResponse{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UTC(),
		Admin:     AdminDTO{ID: sess.Identity.ID, Name: sess.Identity.Name},
	})
}

func loginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		abort(c, http.StatusUnauthorized, codeUnauthenticated, "identifier or password is incorrect")
	case errors.Is(err, ErrUnavailable):
		abort(c, http.StatusServiceUnavailable, "DIRECTORY_UNAVAILABLE", "directory service unavailable, try again")
	default:
		abort(c, http.StatusInternalServerError, "INTERNAL", "login failed")
	}
}
