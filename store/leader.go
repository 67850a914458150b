package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

var (
	ErrLeaderNotFound = fmt.Errorf("leader not found")
	ErrLeaderTaken    = fmt.Errorf("leader name already in roster")
)

type Leader interface {
	ListLeaders() ([]schema.Leader, error)
	CreateLeader(name string) (*schema.Leader, error)
	DeleteLeaderByName(name string) error
	TeamCountsByLeader() (map[string]int, error)
}

// ListLeaders is a one-shot read of the roster. The roster is not watched
// for changes; callers that need a current view fetch again.
func (m *mongoDB) ListLeaders() ([]schema.Leader, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.LeaderCollection)

	cursor, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}

	leaders := make([]schema.Leader, 0)
	if err := cursor.All(ctx, &leaders); err != nil {
		return nil, err
	}

	return leaders, nil
}

func (m *mongoDB) CreateLeader(name string) (*schema.Leader, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.LeaderCollection)

	leader := schema.Leader{
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	result, err := c.InsertOne(ctx, &leader)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrLeaderTaken
		}
		return nil, err
	}

	leader.ID = result.InsertedID.(primitive.ObjectID)
	return &leader, nil
}

// DeleteLeaderByName re-fetches the roster and matches by name before
// deleting, so a roster cached earlier by the caller may already be
// stale. Teams referencing the deleted name keep it.
func (m *mongoDB) DeleteLeaderByName(name string) error {
	leaders, err := m.ListLeaders()
	if err != nil {
		return err
	}

	var match *schema.Leader
	for i := range leaders {
		if leaders[i].Name == name {
			match = &leaders[i]
			break
		}
	}
	if match == nil {
		return ErrLeaderNotFound
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.LeaderCollection)
	result, err := c.DeleteOne(ctx, bson.M{"_id": match.ID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrLeaderNotFound
	}

	return nil
}

// TeamCountsByLeader groups the team collection by leader name.
func (m *mongoDB) TeamCountsByLeader() (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.TeamCollection)
	pipeline := mongo.Pipeline{
		AggregationGroup("$leader", bson.D{
			{Key: "count", Value: bson.M{"$sum": 1}},
		}),
	}

	cursor, err := c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Leader string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Leader] = row.Count
	}

	return counts, nil
}
