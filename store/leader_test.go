package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

type LeaderTestSuite struct {
	suite.Suite
	connURI      string
	testDBName   string
	mongoClient  *mongo.Client
	testDatabase *mongo.Database
}

func NewLeaderTestSuite(connURI, dbName string) *LeaderTestSuite {
	return &LeaderTestSuite{
		connURI:    connURI,
		testDBName: dbName,
	}
}

func (s *LeaderTestSuite) SetupSuite() {
	if s.connURI == "" || s.testDBName == "" {
		s.T().Fatal("invalid test suite configuration")
	}

	opts := options.Client().ApplyURI(s.connURI)
	mongoClient, err := mongo.NewClient(opts)
	if nil != err {
		s.T().Fatalf("create mongo client with error: %s", err)
	}

	if err = mongoClient.Connect(context.Background()); nil != err {
		s.T().Fatalf("connect mongo database with error: %s", err.Error())
	}

	s.mongoClient = mongoClient
	s.testDatabase = mongoClient.Database(s.testDBName)

	if err := s.CleanMongoDB(); err != nil {
		s.T().Fatal(err)
	}

	schema.NewMongoDBIndexer(s.connURI, s.testDBName).IndexAll()
}

func (s *LeaderTestSuite) CleanMongoDB() error {
	return s.testDatabase.Drop(context.Background())
}

func (s *LeaderTestSuite) TestCreateLeaderRejectsDuplicateName() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	leader, err := store.CreateLeader("Gaura")
	s.NoError(err)
	s.False(leader.ID.IsZero())

	_, err = store.CreateLeader("Gaura")
	s.Equal(ErrLeaderTaken, err)
}

func (s *LeaderTestSuite) TestListLeadersSortedByName() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, err := store.CreateLeader("Vrinda")
	s.NoError(err)
	_, err = store.CreateLeader("Ananta")
	s.NoError(err)

	leaders, err := store.ListLeaders()
	s.NoError(err)
	s.True(len(leaders) >= 2)
	for i := 1; i < len(leaders); i++ {
		s.LessOrEqual(leaders[i-1].Name, leaders[i].Name)
	}
}

func (s *LeaderTestSuite) TestDeleteLeaderByName() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, err := store.CreateLeader("Short Lived")
	s.NoError(err)

	s.NoError(store.DeleteLeaderByName("Short Lived"))
	s.Equal(ErrLeaderNotFound, store.DeleteLeaderByName("Short Lived"))
}

func (s *LeaderTestSuite) TestTeamCountsByLeader() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	_, err := store.CreateTeam("One", "Counted", schema.BookData{})
	s.NoError(err)
	_, err = store.CreateTeam("Two", "Counted", schema.BookData{})
	s.NoError(err)

	counts, err := store.TeamCountsByLeader()
	s.NoError(err)
	s.Equal(2, counts["Counted"])
}

func (s *LeaderTestSuite) TestCreateAdminAndVerifyHash() {
	store := NewMongoStore(s.mongoClient, s.testDBName)

	s.NoError(store.CreateAdmin("admin@scoreboard.test", "sup3rsecret"))
	s.Equal(ErrAdminTaken, store.CreateAdmin("admin@scoreboard.test", "other"))

	admin, err := store.GetAdminByEmail("admin@scoreboard.test")
	s.NoError(err)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("sup3rsecret")))

	_, err = store.GetAdminByEmail("nobody@scoreboard.test")
	s.Equal(ErrAdminNotFound, err)
}

func TestLeaderTestSuite(t *testing.T) {
	suite.Run(t, NewLeaderTestSuite("mongodb://127.0.0.1:27017/?compressors=disabled", "test-leader-db"))
}
