package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/store"
)

// listLeaders returns the roster with per-leader team counts. This is a
// one-shot read; leaders added in another session appear on the next
// fetch, not through a live push.
func (s *Server) listLeaders(c *gin.Context) {
	leaders, err := s.mongoStore.ListLeaders()
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	counts, err := s.mongoStore.TeamCountsByLeader()
	if err != nil {
		abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
		return
	}

	type leaderRow struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		TeamCount int    `json:"team_count"`
	}
	rows := make([]leaderRow, 0, len(leaders))
	for _, leader := range leaders {
		rows = append(rows, leaderRow{
			ID:        leader.ID.Hex(),
			Name:      leader.Name,
			TeamCount: counts[leader.Name],
		})
	}

	c.JSON(http.StatusOK, gin.H{"result": rows})
}

func (s *Server) createLeader(c *gin.Context) {
	var params struct {
		Name string `json:"name"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}
	if strings.TrimSpace(params.Name) == "" {
		abortWithEncoding(c, http.StatusBadRequest, errorValidation)
		return
	}

	leader, err := s.mongoStore.CreateLeader(params.Name)
	if err != nil {
		if err == store.ErrLeaderTaken {
			abortWithEncoding(c, http.StatusForbidden, errorLeaderTaken)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorSavingLeader, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": leader})
}

// deleteLeader removes a roster entry by name. The store re-fetches the
// roster before matching, so the client's cached roster may be stale.
// Teams referencing the deleted name keep it; see the leader lint.
func (s *Server) deleteLeader(c *gin.Context) {
	var params struct {
		Name string `json:"name" binding:"required"`
	}

	if err := c.BindJSON(&params); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	if err := s.mongoStore.DeleteLeaderByName(params.Name); err != nil {
		if err == store.ErrLeaderNotFound {
			abortWithEncoding(c, http.StatusNotFound, errorLeaderNotFound)
			return
		}
		abortWithEncoding(c, http.StatusInternalServerError, errorDeletingLeader, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
