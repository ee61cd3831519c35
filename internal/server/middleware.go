package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const contextRoleKey = "auth_role"

// AuthRequired gates mutating routes behind a bearer token issued by the
// login endpoint.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		claims, err := s.authsvc.Verify(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextRoleKey, claims.Role)
		c.Next()
	}
}
