package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/modelviz/modelviz/pkg/errors"
)

const inspectionsCollection = "inspections"

// MongoStore persists inspections in a MongoDB collection, keyed by name.
// For deployments where multiple server instances share one store.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies connectivity.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(inspectionsCollection),
	}, nil
}

// Save creates or replaces an inspection by name.
func (s *MongoStore) Save(ctx context.Context, insp *Inspection) error {
	if err := errors.ValidateInspectionName(insp.Name); err != nil {
		return err
	}

	now := time.Now().UTC()
	if insp.CreatedAt.IsZero() {
		insp.CreatedAt = now
	}
	insp.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": insp.Name}, insp, opts); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save inspection %s", insp.Name)
	}
	return nil
}

// Load retrieves an inspection by name.
func (s *MongoStore) Load(ctx context.Context, name string) (*Inspection, error) {
	if err := errors.ValidateInspectionName(name); err != nil {
		return nil, err
	}

	var insp Inspection
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&insp)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeInspectionNotFound, "inspection %q not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load inspection %s", name)
	}
	return &insp, nil
}

// List returns all saved inspection names, sorted.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list inspections")
	}

	names := make([]string, 0, len(values))
	for _, v := range values {
		if name, ok := v.(string); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes an inspection by name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateInspectionName(name); err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete inspection %s", name)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeInspectionNotFound, "inspection %q not found", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
