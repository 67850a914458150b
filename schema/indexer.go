package schema

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDBIndexer creates the indexes each collection relies on.
type MongoDBIndexer struct {
	connURI  string
	database string
}

func NewMongoDBIndexer(connURI, database string) *MongoDBIndexer {
	return &MongoDBIndexer{
		connURI:  connURI,
		database: database,
	}
}

func (i *MongoDBIndexer) IndexAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(i.connURI))
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)

	db := client.Database(i.database)

	// leader names are unique within the roster
	if _, err := db.Collection(LeaderCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	if _, err := db.Collection(AdminCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return err
	}

	_, err = db.Collection(TeamCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "leader", Value: 1}},
	})
	return err
}
