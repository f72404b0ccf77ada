// Package v1 implements routing paths. Each services in own file.
package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/school-management-toolkit/registrar/internal/entity/dto/v1"
	"github.com/school-management-toolkit/registrar/internal/usecase/auth"
	"github.com/school-management-toolkit/registrar/pkg/logger"
)

const _bearerPrefix = "Bearer "

// AuthRoutes -.
type AuthRoutes struct {
	uc  *auth.UseCase
	log logger.Interface
}

// NewAuthRoutes -.
func NewAuthRoutes(uc *auth.UseCase, log logger.Interface) *AuthRoutes {
	return &AuthRoutes{uc: uc, log: log}
}

// extractToken accepts the token either as X-Auth-Token or as a Bearer
// Authorization header.
func extractToken(c *gin.Context) string {
	if token := c.GetHeader("X-Auth-Token"); token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, _bearerPrefix) {
		return strings.TrimPrefix(header, _bearerPrefix)
	}

	return ""
}

// Login -.
func (r *AuthRoutes) Login(c *gin.Context) {
	var req dto.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		r.log.Debug("http - v1 - Login - bind: %s", err)
		ErrorResponse(c, err)

		return
	}

	result, err := r.uc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		ErrorResponse(c, err)

		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout -.
func (r *AuthRoutes) Logout(c *gin.Context) {
	r.uc.Logout(extractToken(c))

	c.Status(http.StatusNoContent)
}

// Session returns the caller's session details.
func (r *AuthRoutes) Session(c *gin.Context) {
	session, err := r.uc.Session(extractToken(c))
	if err != nil {
		ErrorResponse(c, err)

		return
	}

	c.JSON(http.StatusOK, session)
}

// ChangePassword -.
func (r *AuthRoutes) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		r.log.Debug("http - v1 - ChangePassword - bind: %s", err)
		ErrorResponse(c, err)

		return
	}

	if err := r.uc.ChangePassword(c.Request.Context(), extractToken(c), req.CurrentPassword, req.NewPassword); err != nil {
		ErrorResponse(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

// SessionMiddleware rejects requests without a valid session token. Validation
// refreshes the session's activity timestamp as a side effect.
func (r *AuthRoutes) SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := r.uc.Session(extractToken(c))
		if err != nil {
			ErrorResponse(c, err)

			return
		}

		c.Set("username", session.Username)
		c.Set("role", session.Role)
		c.Next()
	}
}
