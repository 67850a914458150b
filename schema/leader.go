package schema

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	LeaderCollection = "leaders"
)

// Leader is a roster entry. Teams reference a leader by denormalized
// name, not by id; deleting or renaming a leader does not cascade.
type Leader struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
