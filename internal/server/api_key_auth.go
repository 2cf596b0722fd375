package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/factura/internal/auditcontext"
)

// APIKeyRequired authenticates requests with a bearer API key. The resolved
// user becomes the audit actor for the rest of the request.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.authSvc.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := auditcontext.WithActor(c.Request.Context(), "user", user.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
