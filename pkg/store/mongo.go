package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	gerrors "github.com/matzehuels/gasket/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "gasket"
	DefaultMongoCollection = "runs"
)

// MongoStore keeps runs in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

type mongoRun struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	Summary   Summary   `bson:"summary"`
	Document  []byte    `bson:"document"`
}

func (m mongoRun) run() *Run {
	return &Run{ID: m.ID, CreatedAt: m.CreatedAt, Summary: m.Summary, Document: m.Document}
}

// NewMongoStore connects to uri and uses the default database and
// collection.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	if err := gerrors.ValidateMongoURI(uri); err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s, err := NewMongoStoreFromCollection(ctx, client.Database(DefaultMongoDatabase).Collection(DefaultMongoCollection))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewMongoStoreFromCollection uses an existing collection and ensures the
// created_at index used by List.
func NewMongoStoreFromCollection(ctx context.Context, coll *mongo.Collection) (*MongoStore, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoStore{client: coll.Database().Client(), coll: coll}, nil
}

func (s *MongoStore) Save(ctx context.Context, run *Run) error {
	if err := validateRun(run); err != nil {
		return err
	}
	doc := mongoRun{ID: run.ID, CreatedAt: run.CreatedAt, Summary: run.Summary, Document: run.Document}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": run.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save run to mongo: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	if err := gerrors.ValidateRunID(id); err != nil {
		return nil, err
	}
	var doc mongoRun
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run from mongo: %w", err)
	}
	return doc.run(), nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]*Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs from mongo: %w", err)
	}
	var docs []mongoRun
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	runs := make([]*Run, len(docs))
	for i, d := range docs {
		runs[i] = d.run()
	}
	return runs, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := gerrors.ValidateRunID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete run from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
