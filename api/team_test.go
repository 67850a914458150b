package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

func postScores(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(body))
	s.bulkUpdateScores(c)
	return w
}

func TestBulkUpdateScoresRejectsNegativeCounts(t *testing.T) {
	s := newTestServer(t, nil, nil)

	body := fmt.Sprintf(`{"date":"2026-01-10","scores":[{"team_id":"%s","counts":{"%s":-50}}]}`,
		primitive.NewObjectID().Hex(), schema.CategoryBB)
	w := postScores(t, s, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestBulkUpdateScoresRejectsMalformedDate(t *testing.T) {
	s := newTestServer(t, nil, nil)

	body := fmt.Sprintf(`{"date":"01/10/2026","scores":[{"team_id":"%s","counts":{"%s":1}}]}`,
		primitive.NewObjectID().Hex(), schema.CategoryBB)
	w := postScores(t, s, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
