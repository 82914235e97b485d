package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/format"
)

// MongoStore persists documents in a MongoDB collection, one record per
// document keyed by name. Saves upsert, so concurrent writers follow
// last-write-wins semantics.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// mongoRecord is the stored shape: the document plus its lookup name.
type mongoRecord struct {
	Name      string          `bson:"name"`
	Document  format.Document `bson:"document"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB at uri and uses the named database's
// "documents" collection. The name field is uniquely indexed.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	coll := client.Database(database).Collection("documents")
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create name index")
	}

	return &MongoStore{client: client, collection: coll}, nil
}

// Save upserts doc under name.
func (s *MongoStore) Save(ctx context.Context, name string, doc format.Document) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidPath, "document name cannot be empty")
	}

	record := mongoRecord{Name: name, Document: doc, UpdatedAt: time.Now().UTC()}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"name": name},
		record,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save %s", name)
	}
	return nil
}

// Load retrieves the document stored under name.
func (s *MongoStore) Load(ctx context.Context, name string) (format.Document, error) {
	var record mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"name": name}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return format.Document{}, errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	if err != nil {
		return format.Document{}, errors.Wrap(errors.ErrCodeInternal, err, "load %s", name)
	}
	return record.Document, nil
}

// List returns infos for every stored document, sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	cursor, err := s.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list documents")
	}
	defer cursor.Close(ctx)

	var infos []Info
	for cursor.Next(ctx) {
		var record mongoRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode document record")
		}
		infos = append(infos, Info{
			Name:      record.Name,
			NodeCount: len(record.Document.Nodes),
			EdgeCount: len(record.Document.Edges),
			UpdatedAt: record.UpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "iterate documents")
	}
	return infos, nil
}

// Delete removes the document stored under name.
func (s *MongoStore) Delete(ctx context.Context, name string) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete %s", name)
	}
	if result.DeletedCount == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document %q not found", name)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
