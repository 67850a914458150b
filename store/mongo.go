package store

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	mongoLogPrefix = "mongo"
	defaultTimeout = 5 * time.Second
)

// MongoStore combines all collection accessors backed by mongodb.
type MongoStore interface {
	Team
	Leader
	Admin

	Ping() error
	Close()
}

type mongoDB struct {
	client   *mongo.Client
	database string
}

// NewMongoStore returns a MongoStore over an established mongo client.
func NewMongoStore(client *mongo.Client, database string) MongoStore {
	return &mongoDB{
		client:   client,
		database: database,
	}
}

func (m *mongoDB) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	return m.client.Ping(ctx, nil)
}

func (m *mongoDB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		log.WithField("prefix", mongoLogPrefix).WithError(err).Error("fail to disconnect mongo client")
	}
}
