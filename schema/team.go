package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TeamCollection = "teams"
)

// BookHistoryEntry is one dated record of a team's book counts. A team
// has at most one entry per distinct date; a later write for the same
// date overwrites the entry.
type BookHistoryEntry struct {
	Date   string     `json:"date" bson:"date"`
	Counts BookCounts `json:"counts" bson:"counts"`
}

// BookData is the persisted book field of a team. Two shapes coexist in
// the collection: the legacy flat category map, and the dated history
// array. The shape is resolved once at the persistence boundary; business
// logic only ever sees the normalized views produced by the score package.
type BookData struct {
	History []BookHistoryEntry
	Legacy  BookCounts
}

// IsHistory reports whether the persisted value was history shaped.
func (b BookData) IsHistory() bool {
	return b.History != nil
}

func (b BookData) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if b.History != nil {
		return bson.MarshalValue(b.History)
	}
	if b.Legacy == nil {
		return bson.MarshalValue(BookCounts{})
	}
	return bson.MarshalValue(b.Legacy)
}

func (b *BookData) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeArray:
		var entries []BookHistoryEntry
		if err := bson.UnmarshalValue(t, data, &entries); err != nil {
			return err
		}
		b.History = entries
		b.Legacy = nil
	case bson.TypeEmbeddedDocument:
		var counts BookCounts
		if err := bson.UnmarshalValue(t, data, &counts); err != nil {
			return err
		}
		b.Legacy = counts
		b.History = nil
	case bson.TypeNull:
		b.History = nil
		b.Legacy = nil
	default:
		return fmt.Errorf("book data has unexpected bson type %s", t)
	}
	return nil
}

func (b BookData) MarshalJSON() ([]byte, error) {
	if b.History != nil {
		return json.Marshal(b.History)
	}
	if b.Legacy == nil {
		return json.Marshal(BookCounts{})
	}
	return json.Marshal(b.Legacy)
}

func (b *BookData) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("empty book data")
	}
	switch trimmed[0] {
	case '[':
		b.Legacy = nil
		return json.Unmarshal(data, &b.History)
	case '{':
		b.History = nil
		return json.Unmarshal(data, &b.Legacy)
	case 'n': // null
		b.History = nil
		b.Legacy = nil
		return nil
	}
	return fmt.Errorf("book data is neither a category map nor a history array")
}

type Team struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Leader    string             `json:"leader" bson:"leader"`
	Books     BookData           `json:"books" bson:"books"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
