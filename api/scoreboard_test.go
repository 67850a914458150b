package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/board"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

// stubStore serves canned data for handler tests; only the read paths
// used by the public endpoints are populated.
type stubStore struct {
	teams   []schema.Team
	leaders []schema.Leader
}

func (s *stubStore) CreateTeam(name, leader string, books schema.BookData) (*schema.Team, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStore) GetTeam(teamID primitive.ObjectID) (*schema.Team, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStore) ListTeams() ([]schema.Team, error) {
	return s.teams, nil
}

func (s *stubStore) UpdateTeam(teamID primitive.ObjectID, name, leader string, books schema.BookData) error {
	return fmt.Errorf("not implemented")
}

func (s *stubStore) AdjustTeamCategory(teamID primitive.ObjectID, category string, delta int) error {
	return fmt.Errorf("not implemented")
}

func (s *stubStore) SetTeamScores(teamID primitive.ObjectID, date string, counts schema.BookCounts) error {
	return fmt.Errorf("not implemented")
}

func (s *stubStore) DeleteTeam(teamID primitive.ObjectID) error {
	return fmt.Errorf("not implemented")
}

func (s *stubStore) WatchTeams(ctx context.Context) (*mongo.ChangeStream, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStore) TeamsWithUnknownLeader() ([]schema.Team, error) {
	return nil, nil
}

func (s *stubStore) ListLeaders() ([]schema.Leader, error) {
	return s.leaders, nil
}

func (s *stubStore) CreateLeader(name string) (*schema.Leader, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStore) DeleteLeaderByName(name string) error {
	return fmt.Errorf("not implemented")
}

func (s *stubStore) TeamCountsByLeader() (map[string]int, error) {
	counts := map[string]int{}
	for _, team := range s.teams {
		counts[team.Leader]++
	}
	return counts, nil
}

func (s *stubStore) CreateAdmin(email, password string) error {
	return fmt.Errorf("not implemented")
}

func (s *stubStore) GetAdminByEmail(email string) (*schema.Admin, error) {
	return nil, fmt.Errorf("not implemented")
}

func (s *stubStore) Ping() error { return nil }
func (s *stubStore) Close()      {}

func newTestServer(t *testing.T, teams []schema.Team, leaders []schema.Leader) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := &stubStore{teams: teams, leaders: leaders}
	teamBoard := board.New(stub)
	if err := teamBoard.Refresh(); err != nil {
		t.Fatal(err)
	}

	return NewServer(stub, teamBoard, nil, false)
}

func testTeam(name, leader string, counts schema.BookCounts) schema.Team {
	return schema.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Leader:    leader,
		Books:     schema.BookData{Legacy: counts},
		UpdatedAt: time.Now().UTC(),
	}
}

type scoreboardResult struct {
	Result []scoreboardRow `json:"result"`
}

func getScoreboard(t *testing.T, s *Server, path string) (int, scoreboardResult) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)

	var body scoreboardResult
	if w.Code == http.StatusOK {
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func TestScoreboardRanking(t *testing.T) {
	s := newTestServer(t, []schema.Team{
		testTeam("Alpha Squad", "Gaura", schema.BookCounts{schema.CategoryBB: 1}),
		testTeam("Beta Team", "Nitai", schema.BookCounts{schema.CategoryBhagavatam: 1}),
	}, nil)

	code, body := getScoreboard(t, s, "/api/scoreboard")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Result, 2)
	assert.Equal(t, "Beta Team", body.Result[0].Name)
	assert.Equal(t, 1, body.Result[0].Rank)
	assert.Equal(t, 72.0, body.Result[0].TotalPoints)
	assert.NotEmpty(t, body.Result[0].UpdatedAgo)
}

func TestScoreboardSearchAndLeaderFilters(t *testing.T) {
	s := newTestServer(t, []schema.Team{
		testTeam("Alpha Squad", "Gaura", nil),
		testTeam("Alpha Crew", "Nitai", nil),
		testTeam("Beta Team", "Gaura", nil),
	}, nil)

	code, body := getScoreboard(t, s, "/api/scoreboard?search=alpha&leader=Gaura")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Result, 1)
	assert.Equal(t, "Alpha Squad", body.Result[0].Name)
	assert.Equal(t, 1, body.Result[0].Rank)
}

func TestScoreboardEquivalentUnits(t *testing.T) {
	s := newTestServer(t, []schema.Team{
		testTeam("Alpha Squad", "Gaura", schema.BookCounts{schema.CategoryBhagavatam: 1}),
	}, nil)

	code, body := getScoreboard(t, s, "/api/scoreboard?units=equivalent")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 18.0, body.Result[0].TotalBooks)

	code, body = getScoreboard(t, s, "/api/scoreboard")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.0, body.Result[0].TotalBooks)

	code, _ = getScoreboard(t, s, "/api/scoreboard?units=weighted")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestScoreboardRejectsUnknownSortKey(t *testing.T) {
	s := newTestServer(t, nil, nil)

	code, _ := getScoreboard(t, s, "/api/scoreboard?sort=name")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestScoreboardRejectsMalformedDate(t *testing.T) {
	s := newTestServer(t, nil, nil)

	code, _ := getScoreboard(t, s, "/api/scoreboard?date=01-20-2026")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestScoreboardChartTruncatesToTen(t *testing.T) {
	teams := make([]schema.Team, 0, 12)
	for i := 0; i < 12; i++ {
		teams = append(teams, testTeam(fmt.Sprintf("Team %d", i), "Gaura",
			schema.BookCounts{schema.CategoryBB: i}))
	}
	s := newTestServer(t, teams, nil)

	code, body := getScoreboard(t, s, "/api/scoreboard/chart?sort=books")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Result, 10)
	assert.Equal(t, "Team 11", body.Result[0].Name)
}

func TestExportScoreboard(t *testing.T) {
	s := newTestServer(t, []schema.Team{
		testTeam("Alpha Squad", "Gaura", schema.BookCounts{
			schema.CategoryBhagavatam: 1,
			schema.CategoryMBB:        3,
		}),
	}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/scoreboard/export", nil)
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "marathon-scoreboard-")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "1,Alpha Squad,Gaura,1,0,3,0,0,0,4,78.00", lines[1])
}

func TestListLeaders(t *testing.T) {
	s := newTestServer(t, []schema.Team{
		testTeam("Alpha Squad", "Gaura", nil),
		testTeam("Beta Team", "Gaura", nil),
	}, []schema.Leader{
		{ID: primitive.NewObjectID(), Name: "Gaura"},
		{ID: primitive.NewObjectID(), Name: "Nitai"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/leaders", nil)
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Result []struct {
			Name      string `json:"name"`
			TeamCount int    `json:"team_count"`
		} `json:"result"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Result, 2)
	assert.Equal(t, 2, body.Result[0].TeamCount)
	assert.Equal(t, 0, body.Result[1].TeamCount)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/teams", strings.NewReader(`{}`))
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
