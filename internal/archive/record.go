package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection of archive records.
const CollectionName = "cv_renders"

// Record describes one archived render.
type Record struct {
	ID        string    `bson:"id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	Filename  string    `bson:"filename" json:"filename"`
	ObjectKey string    `bson:"objectKey" json:"objectKey"`
	SHA256    string    `bson:"sha256" json:"sha256"`
	Size      int64     `bson:"size" json:"size"`
	Pages     int       `bson:"pages" json:"pages"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// RecordStore keeps archive metadata. Saving an existing (owner, object
// key) pair replaces it.
type RecordStore interface {
	Save(ctx context.Context, rec *Record) error
	// List returns the owner's records, newest first.
	List(ctx context.Context, owner string) ([]Record, error)
}

type MemoryRecords struct {
	mu   sync.RWMutex
	recs map[string]Record // by object key
}

func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{recs: make(map[string]Record)}
}

func (m *MemoryRecords) Save(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ObjectKey] = *rec
	return nil
}

func (m *MemoryRecords) List(_ context.Context, owner string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Record{}
	for _, r := range m.recs {
		if r.Owner == owner {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// MongoRecords upserts records by object key.
type MongoRecords struct {
	col *mongo.Collection
}

func NewMongoRecords(ctx context.Context, col *mongo.Collection) (*MongoRecords, error) {
	_, err := col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "objectKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return nil, err
	}
	return &MongoRecords{col: col}, nil
}

func (m *MongoRecords) Save(ctx context.Context, rec *Record) error {
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, bson.M{"objectKey": rec.ObjectKey}, bson.M{"$set": rec}, opts)
	return err
}

func (m *MongoRecords) List(ctx context.Context, owner string) ([]Record, error) {
	cur, err := m.col.Find(ctx, bson.M{"owner": owner}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Record{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
