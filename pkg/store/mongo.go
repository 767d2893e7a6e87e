package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/sourceflow/pkg/errors"
	"github.com/matzehuels/sourceflow/pkg/source"
)

const (
	defaultDatabase   = "sourceflow"
	configsCollection = "configs"
)

// MongoStore stores published configs in a MongoDB collection, one document
// per name with the name as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri and verifies the
// connection with a ping. An empty database selects the default.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = defaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to config store")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping config store")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(configsCollection),
	}, nil
}

// Publish upserts config under name.
func (s *MongoStore) Publish(ctx context.Context, name string, config source.Config) error {
	record := ConfigRecord{Name: name, Config: config, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": name},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "publish config %q", name)
	}
	return nil
}

// Fetch retrieves a published config by name.
func (s *MongoStore) Fetch(ctx context.Context, name string) (*ConfigRecord, error) {
	var record ConfigRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeNotFound, "config %q was not found in the store", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "fetch config %q", name)
	}
	return &record, nil
}

// List returns all published records sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]ConfigRecord, error) {
	cursor, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list configs")
	}
	defer cursor.Close(ctx)

	var records []ConfigRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode configs")
	}
	return records, nil
}

// Delete removes a published config.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete config %q", name)
	}
	if result.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "config %q was not found in the store", name)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
