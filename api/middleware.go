package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// authRequired gates admin-only routes behind a valid session token.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortWithEncoding(c, http.StatusUnauthorized, errorUnauthorized)
			return
		}

		claims, err := s.sessions.Verify(c.Request.Context(), token)
		if err != nil {
			abortWithEncoding(c, http.StatusUnauthorized, errorUnauthorized, err)
			return
		}

		c.Set("requester", claims.AdminID)
		c.Set("session_token", token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
