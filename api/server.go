package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/auth"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/board"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/store"
)

// Server is the scoreboard HTTP API.
type Server struct {
	router *gin.Engine

	mongoStore store.MongoStore
	board      *board.Board
	sessions   *auth.Sessions

	traceMode bool
}

func NewServer(mongoStore store.MongoStore, teamBoard *board.Board, sessions *auth.Sessions, traceMode bool) *Server {
	s := &Server{
		mongoStore: mongoStore,
		board:      teamBoard,
		sessions:   sessions,
		traceMode:  traceMode,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.DumpRequest)

	r.GET("/healthz", s.healthz)

	api := r.Group("/api")
	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.authRequired(), s.logout)

	api.GET("/scoreboard", s.scoreboard)
	api.GET("/scoreboard/chart", s.scoreboardChart)
	api.GET("/scoreboard/export", s.exportScoreboard)
	api.GET("/leaders", s.listLeaders)
	api.GET("/stream", s.stream)

	admin := api.Group("", s.authRequired())
	admin.POST("/teams", s.createTeam)
	admin.PUT("/teams/:teamID", s.updateTeam)
	admin.DELETE("/teams/:teamID", s.deleteTeam)
	admin.PATCH("/teams/:teamID/books/:category", s.adjustTeamCategory)
	admin.POST("/scores", s.bulkUpdateScores)
	admin.GET("/teams/leader-lint", s.leaderLint)
	admin.POST("/leaders", s.createLeader)
	admin.DELETE("/leaders", s.deleteLeader)

	return r
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.mongoStore.Ping(); err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorInternalServer, err)
		return
	}
	if err := s.sessions.Ping(c.Request.Context()); err != nil {
		abortWithEncoding(c, http.StatusServiceUnavailable, errorInternalServer, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "OK"})
}
