package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
	"github.com/abhaynitaidasbavs/marathon-scoreboard/score"
)

var (
	ErrTeamNotFound    = fmt.Errorf("team not found")
	ErrUnknownCategory = fmt.Errorf("unknown book category")
)

type Team interface {
	CreateTeam(name, leader string, books schema.BookData) (*schema.Team, error)
	GetTeam(teamID primitive.ObjectID) (*schema.Team, error)
	ListTeams() ([]schema.Team, error)
	UpdateTeam(teamID primitive.ObjectID, name, leader string, books schema.BookData) error
	AdjustTeamCategory(teamID primitive.ObjectID, category string, delta int) error
	SetTeamScores(teamID primitive.ObjectID, date string, counts schema.BookCounts) error
	DeleteTeam(teamID primitive.ObjectID) error

	WatchTeams(ctx context.Context) (*mongo.ChangeStream, error)
	TeamsWithUnknownLeader() ([]schema.Team, error)
}

func (m *mongoDB) CreateTeam(name, leader string, books schema.BookData) (*schema.Team, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)

	team := schema.Team{
		Name:      name,
		Leader:    leader,
		Books:     books,
		UpdatedAt: time.Now().UTC(),
	}
	result, err := c.InsertOne(ctx, &team)
	if err != nil {
		return nil, err
	}

	team.ID = result.InsertedID.(primitive.ObjectID)
	return &team, nil
}

func (m *mongoDB) GetTeam(teamID primitive.ObjectID) (*schema.Team, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)

	var team schema.Team
	if err := c.FindOne(ctx, bson.M{"_id": teamID}).Decode(&team); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}

	return &team, nil
}

// ListTeams returns every team in insertion order. The scoreboard relies
// on that order to break ties between equal totals.
func (m *mongoDB) ListTeams() ([]schema.Team, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)

	cursor, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	teams := make([]schema.Team, 0)
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}

	return teams, nil
}

// UpdateTeam replaces a team's name, leader and book data in full. There
// is no concurrency token; when two admins edit the same team the later
// write wins.
func (m *mongoDB) UpdateTeam(teamID primitive.ObjectID, name, leader string, books schema.BookData) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)

	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"leader":     leader,
			"books":      books,
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := c.UpdateOne(ctx, bson.M{"_id": teamID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// AdjustTeamCategory applies a delta to one category, clamped at zero.
// The whole adjustment runs as one pipeline update so concurrent adjusts
// never lose increments to a read-modify-write race. Flat-shaped data has
// the field adjusted in place; history-shaped data keeps every dated
// entry and the delta lands on today's entry, appended when the date is
// new.
func (m *mongoDB) AdjustTeamCategory(teamID primitive.ObjectID, category string, delta int) error {
	if _, ok := schema.PointValues[category]; !ok {
		return ErrUnknownCategory
	}

	today := time.Now().UTC().Format("2006-01-02")

	clamp := func(current string) bson.M {
		return bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{
			bson.M{"$ifNull": bson.A{current, 0}}, delta,
		}}}}
	}

	adjustedEntry := bson.M{
		"date": today,
		"counts": bson.M{"$mergeObjects": bson.A{
			"$$entry.counts",
			bson.M{category: clamp("$$entry.counts." + category)},
		}},
	}
	historyBooks := bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{today, "$books.date"}},
		bson.M{"$map": bson.M{
			"input": "$books",
			"as":    "entry",
			"in": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$$entry.date", today}},
				adjustedEntry,
				"$$entry",
			}},
		}},
		bson.M{"$concatArrays": bson.A{"$books", bson.A{bson.M{
			"date":   today,
			"counts": bson.M{category: bson.M{"$max": bson.A{0, delta}}},
		}}}},
	}}
	legacyBooks := bson.M{"$mergeObjects": bson.A{
		bson.M{"$ifNull": bson.A{"$books", bson.M{}}},
		bson.M{category: clamp("$books." + category)},
	}}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"books": bson.M{"$cond": bson.A{
				bson.M{"$isArray": "$books"},
				historyBooks,
				legacyBooks,
			}},
			"updated_at": time.Now().UTC(),
		}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)
	result, err := c.UpdateOne(ctx, bson.M{"_id": teamID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// SetTeamScores records the counts for one calendar date. A team keeps at
// most one history entry per date; a later write for the same date
// overwrites the entry instead of appending a duplicate. Legacy-shaped
// data migrates to history shape on the first dated write, with its flat
// counts kept as an entry tagged with today's date.
func (m *mongoDB) SetTeamScores(teamID primitive.ObjectID, date string, counts schema.BookCounts) error {
	team, err := m.GetTeam(teamID)
	if err != nil {
		return err
	}

	history, _ := score.Normalize(team.Books, time.Now().UTC().Format("2006-01-02"))

	replaced := false
	updatedHistory := make([]schema.BookHistoryEntry, 0, len(history)+1)
	for _, entry := range history {
		if entry.Date == date {
			entry.Counts = counts
			replaced = true
		}
		updatedHistory = append(updatedHistory, entry)
	}
	if !replaced {
		updatedHistory = append(updatedHistory, schema.BookHistoryEntry{Date: date, Counts: counts})
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)
	update := bson.M{
		"$set": bson.M{
			"books":      schema.BookData{History: updatedHistory},
			"updated_at": time.Now().UTC(),
		},
	}
	result, err := c.UpdateOne(ctx, bson.M{"_id": teamID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrTeamNotFound
	}

	return nil
}

func (m *mongoDB) DeleteTeam(teamID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)
	result, err := c.DeleteOne(ctx, bson.M{"_id": teamID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// WatchTeams opens a change stream over the team collection. The stream
// stays open until ctx is cancelled; callers re-list on every event
// rather than patching individual documents.
func (m *mongoDB) WatchTeams(ctx context.Context) (*mongo.ChangeStream, error) {
	c := m.client.Database(m.database).Collection(schema.TeamCollection)

	cs, err := c.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		log.WithField("prefix", mongoLogPrefix).WithError(err).Error("fail to open team change stream")
		return nil, err
	}

	return cs, nil
}

// TeamsWithUnknownLeader flags teams whose denormalized leader name has no
// matching roster entry. Nothing is enforced; deleting or renaming a
// leader never cascades to teams.
func (m *mongoDB) TeamsWithUnknownLeader() ([]schema.Team, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)
	pipeline := mongo.Pipeline{
		AggregationLookup(schema.LeaderCollection, "leader", "name", "roster"),
		AggregationMatch(bson.M{"roster": bson.M{"$size": 0}}),
		AggregationProject(bson.M{"roster": 0}),
	}

	cursor, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	teams := make([]schema.Team, 0)
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}

	return teams, nil
}
