package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/auth"
)

// login verifies admin credentials and opens a session.
func (s *Server) login(c *gin.Context) {
	var params struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	token, err := s.sessions.Authenticate(c.Request.Context(), params.Email, params.Password)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			abortWithEncoding(c, http.StatusUnauthorized, errorInvalidCredentials)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": map[string]interface{}{
			"token": token,
		},
	})
}

// logout ends the requester's session and notifies subscribers.
func (s *Server) logout(c *gin.Context) {
	token := c.GetString("session_token")

	if err := s.sessions.EndSession(c.Request.Context(), token); err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
