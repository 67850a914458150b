package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/score"
)

const chartSize = 10

type scoreboardRow struct {
	Rank        int               `json:"rank"`
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Leader      string            `json:"leader"`
	Counts      schema.BookCounts `json:"counts"`
	TotalBooks  float64           `json:"total_books"`
	TotalPoints float64           `json:"total_points"`
	UpdatedAt   time.Time         `json:"updated_at"`
	UpdatedAgo  string            `json:"updated_ago"`
}

func scoreboardRows(ranked []score.RankedTeam) []scoreboardRow {
	rows := make([]scoreboardRow, 0, len(ranked))
	for _, entry := range ranked {
		rows = append(rows, scoreboardRow{
			Rank:        entry.Rank,
			ID:          entry.Team.ID.Hex(),
			Name:        entry.Team.Name,
			Leader:      entry.Team.Leader,
			Counts:      entry.Counts,
			TotalBooks:  score.Round2(entry.Stats.TotalBooks),
			TotalPoints: score.Round2(entry.Stats.TotalPoints),
			UpdatedAt:   entry.Team.UpdatedAt,
			UpdatedAgo:  humanize.Time(entry.Team.UpdatedAt),
		})
	}
	return rows
}

// scoreboardQuery reads the dashboard view state off the request.
func scoreboardQuery(c *gin.Context) (score.Query, error) {
	q := score.Query{
		Search: c.Query("search"),
		Leader: c.DefaultQuery("leader", score.LeaderAll),
		Date:   c.Query("date"),
	}

	switch key := c.DefaultQuery("sort", string(score.SortByPoints)); score.SortKey(key) {
	case score.SortByPoints, score.SortByBooks:
		q.Sort = score.SortKey(key)
	default:
		return q, fmt.Errorf("unknown sort key: %s", key)
	}

	// book totals default to raw counts; units=equivalent expresses them
	// in small-book units instead
	switch units := c.DefaultQuery("units", "count"); units {
	case "count":
	case "equivalent":
		q.Equivalence = schema.BookEquivalence
	default:
		return q, fmt.Errorf("unknown units: %s", units)
	}

	if q.Date != "" {
		if _, err := time.Parse("2006-01-02", q.Date); err != nil {
			return q, fmt.Errorf("invalid date filter: %s", q.Date)
		}
	}

	return q, nil
}

func (s *Server) rankedForRequest(c *gin.Context) ([]score.RankedTeam, bool) {
	q, err := scoreboardQuery(c)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return nil, false
	}

	today := time.Now().UTC().Format("2006-01-02")
	return score.Rank(s.board.Teams(), q, today), true
}

// scoreboard returns the ranked view for the active filters and sort.
func (s *Server) scoreboard(c *gin.Context) {
	ranked, ok := s.rankedForRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": scoreboardRows(ranked)})
}

// scoreboardChart returns the top teams of the active view for charting.
// It truncates the already sorted sequence; the chart never re-sorts by a
// different key than the active one.
func (s *Server) scoreboardChart(c *gin.Context) {
	ranked, ok := s.rankedForRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": scoreboardRows(score.TopN(ranked, chartSize))})
}

// exportScoreboard serves the ranked view as a CSV attachment.
func (s *Server) exportScoreboard(c *gin.Context) {
	ranked, ok := s.rankedForRequest(c)
	if !ok {
		return
	}

	filename := score.ExportFilename(time.Now().UTC())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv", []byte(score.CSV(ranked)))
}
