package api

import (
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	errorInternalServer     = errorResponse{1000, "Internal server error, please try again"}
	errorInvalidParameters  = errorResponse{1001, "Invalid parameters"}
	errorCannotParseRequest = errorResponse{1002, "Cannot parse request"}
	errorUnauthorized       = errorResponse{1003, "Authorization required"}
	errorInvalidCredentials = errorResponse{1004, "Invalid credentials, please try again"}
	errorValidation         = errorResponse{1005, "Required fields are missing"}
	errorTeamNotFound       = errorResponse{2000, "Team not found"}
	errorSavingTeam         = errorResponse{2001, "Error saving team, please try again"}
	errorUpdatingTeam       = errorResponse{2002, "Error updating team, please try again"}
	errorDeletingTeam       = errorResponse{2003, "Error deleting team, please try again"}
	errorUnknownCategory    = errorResponse{2004, "Unknown book category"}
	errorLeaderNotFound     = errorResponse{3000, "Leader not found"}
	errorLeaderTaken        = errorResponse{3001, "Leader name already in roster"}
	errorSavingLeader       = errorResponse{3002, "Error saving leader, please try again"}
	errorDeletingLeader     = errorResponse{3003, "Error deleting leader, please try again"}
)

func abortWithEncoding(c *gin.Context, code int, resp errorResponse, errors ...error) {
	for _, err := range errors {
		log.WithFields(log.Fields{
			"prefix": "api",
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).WithError(err).Error(resp.Message)
	}

	c.AbortWithStatusJSON(code, gin.H{"error": resp})
}
