package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jobscout/jobscout/backend/go-services/internal/cv"
)

// CollectionName is the default collection for stored snapshots.
const CollectionName = "cv_documents"

type mongoRecord struct {
	Owner     string      `bson:"owner"`
	Document  cv.Document `bson:"document"`
	UpdatedAt time.Time   `bson:"updatedAt"`
}

// MongoStore keeps one record per owner, upserted on every save.
type MongoStore struct {
	col *mongo.Collection
	now func() time.Time
}

// NewMongoStore ensures the unique owner index and returns the store.
func NewMongoStore(ctx context.Context, col *mongo.Collection) (*MongoStore, error) {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, err
	}
	return &MongoStore{col: col, now: time.Now}, nil
}

func (m *MongoStore) Load(ctx context.Context, key string) (*cv.Document, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var rec mongoRecord
	err := m.col.FindOne(ctx, bson.M{"owner": key}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return rec.document()
}

// document applies the same invariants as a snapshot read from Redis, so a
// record edited by hand in Mongo cannot break the editor.
func (rec mongoRecord) document() (*cv.Document, error) {
	d, err := cv.Normalize(rec.Document)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *MongoStore) Save(ctx context.Context, key string, doc cv.Document) error {
	if key == "" {
		return ErrEmptyKey
	}
	rec := mongoRecord{Owner: key, Document: doc.Clone(), UpdatedAt: m.now().UTC()}
	_, err := m.col.ReplaceOne(ctx, bson.M{"owner": key}, rec, options.Replace().SetUpsert(true))
	return err
}

func (m *MongoStore) Clear(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := m.col.DeleteOne(ctx, bson.M{"owner": key})
	return err
}
