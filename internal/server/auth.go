package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smallbiznis/printtrack/internal/audit/domain"
	authdomain "github.com/smallbiznis/printtrack/internal/auth/domain"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		AbortWithError(c, newValidationError("password", "missing_password", "password is required"))
		return
	}

	resp, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token":     resp.Token,
		"expiresAt": resp.ExpiresAt,
		"role":      "admin",
	})
}

func (s *Server) VerifyToken(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	claims, err := s.authsvc.Verify(c.Request.Context(), token)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"role":      claims.Role,
		"issuedAt":  claims.IssuedAt,
		"expiresAt": claims.ExpiresAt,
	})
}

func (s *Server) ListAuthAttempts(c *gin.Context) {
	var query auditdomain.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.auditSvc.List(c.Request.Context(), query)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, resp)
}
