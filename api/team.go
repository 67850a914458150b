package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/store"
)

type teamParams struct {
	Name   string            `json:"name"`
	Leader string            `json:"leader"`
	Books  schema.BookCounts `json:"books"`
}

// validate rejects the submission before any remote call is made.
func (p teamParams) validate() bool {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Leader) == "" {
		return false
	}
	for _, count := range p.Books {
		if count < 0 {
			return false
		}
	}
	return true
}

func (s *Server) createTeam(c *gin.Context) {
	var params teamParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if !params.validate() {
		abortWithEncoding(c, http.StatusBadRequest, errorValidation)
		return
	}

	team, err := s.mongoStore.CreateTeam(params.Name, params.Leader, schema.BookData{Legacy: params.Books})
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorSavingTeam, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": team})
}

// updateTeam replaces the team's name, leader and book data in full.
func (s *Server) updateTeam(c *gin.Context) {
	teamID, err := primitive.ObjectIDFromHex(c.Param("teamID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	var params teamParams
	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if !params.validate() {
		abortWithEncoding(c, http.StatusBadRequest, errorValidation)
		return
	}

	if err := s.mongoStore.UpdateTeam(teamID, params.Name, params.Leader, schema.BookData{Legacy: params.Books}); err != nil {
		if err == store.ErrTeamNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorTeamNotFound)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorUpdatingTeam, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

func (s *Server) deleteTeam(c *gin.Context) {
	teamID, err := primitive.ObjectIDFromHex(c.Param("teamID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if err := s.mongoStore.DeleteTeam(teamID); err != nil {
		if err == store.ErrTeamNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorTeamNotFound)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorDeletingTeam, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

// adjustTeamCategory applies a signed delta to one category of the flat
// snapshot. The count never goes below zero. Clients apply the change
// optimistically; a failure here means their local state diverges until
// the next board push corrects it.
func (s *Server) adjustTeamCategory(c *gin.Context) {
	teamID, err := primitive.ObjectIDFromHex(c.Param("teamID"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	delta, err := strconv.Atoi(c.DefaultQuery("delta", "1"))
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	if err := s.mongoStore.AdjustTeamCategory(teamID, c.Param("category"), delta); err != nil {
		switch err {
		case store.ErrTeamNotFound:
			abortWithEncoding(c, http.StatusNotFound, errorTeamNotFound)
		case store.ErrUnknownCategory:
			abortWithEncoding(c, http.StatusBadRequest, errorUnknownCategory)
		default:
			abortWithEncoding(c, http.StatusInternalServerError, errorUpdatingTeam, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

// bulkUpdateScores records counts for several teams under one date. Each
// team is an independent write: a failure aborts the remaining sequence
// without rolling back the writes that already landed, and the caller
// only gets the one generic error.
func (s *Server) bulkUpdateScores(c *gin.Context) {
	var params struct {
		Date   string `json:"date" binding:"required"`
		Scores []struct {
			TeamID string            `json:"team_id"`
			Counts schema.BookCounts `json:"counts"`
		} `json:"scores" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if _, err := time.Parse("2006-01-02", params.Date); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	// reject the whole batch up front so an invalid entry never lands
	// after earlier writes already did
	for _, entry := range params.Scores {
		for _, count := range entry.Counts {
			if count < 0 {
				abortWithEncoding(c, http.StatusBadRequest, errorValidation)
				return
			}
		}
	}

	for _, entry := range params.Scores {
		teamID, err := primitive.ObjectIDFromHex(entry.TeamID)
		if err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
			return
		}

		if err := s.mongoStore.SetTeamScores(teamID, params.Date, entry.Counts); err != nil {
			abortWithEncoding(c, http.StatusInternalServerError, errorUpdatingTeam, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}

// leaderLint flags teams whose leader name has no roster entry.
func (s *Server) leaderLint(c *gin.Context) {
	teams, err := s.mongoStore.TeamsWithUnknownLeader()
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": teams})
}
