package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhaynitaidasbavs/marathon-scoreboard/schema"
)

var (
	ErrAdminNotFound = fmt.Errorf("admin not found")
	ErrAdminTaken    = fmt.Errorf("admin account already exists")
)

type Admin interface {
	CreateAdmin(email, password string) error
	GetAdminByEmail(email string) (*schema.Admin, error)
}

func (m *mongoDB) CreateAdmin(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.AdminCollection)
	_, err = c.InsertOne(ctx, &schema.Admin{
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAdminTaken
		}
		return err
	}

	return nil
}

func (m *mongoDB) GetAdminByEmail(email string) (*schema.Admin, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.AdminCollection)

	var admin schema.Admin
	if err := c.FindOne(ctx, bson.M{"email": email}).Decode(&admin); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}
