package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/score"
)

// stream pushes scoreboard snapshots over server-sent events whenever
// the team collection changes. Authenticated streams additionally get a
// session_revoked event and are closed when their session ends
// elsewhere. The subscription is torn down when the client disconnects.
func (s *Server) stream(c *gin.Context) {
	q, err := scoreboardQuery(c)
	if err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}

	ctx := c.Request.Context()

	updates, cancel := s.board.Subscribe()
	defer cancel()

	var revocations <-chan string
	var sessionID string
	if token := bearerToken(c); token != "" {
		claims, err := s.sessions.Verify(ctx, token)
		if err != nil {
			abortWithEncoding(c, http.StatusUnauthorized, errorUnauthorized, err)
			return
		}
		sessionID = claims.ID
		revocations = s.sessions.WatchRevocations(ctx)
	}

	snapshot := func() []scoreboardRow {
		today := time.Now().UTC().Format("2006-01-02")
		return scoreboardRows(score.Rank(s.board.Teams(), q, today))
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")

	first := true
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			c.SSEvent("scoreboard", snapshot())
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-updates:
			c.SSEvent("scoreboard", snapshot())
			return true
		case jti, ok := <-revocations:
			if !ok {
				return false
			}
			if jti == sessionID {
				c.SSEvent("session_revoked", "")
				return false
			}
			return true
		}
	})
}
