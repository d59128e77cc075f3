package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoDocumentRepository struct {
	db *mongo.Database
}

// NewMongoDocumentRepository stores each record as a document in the collection of the same name.
// Identifiers are the hex form of the ObjectID the driver assigns.
func NewMongoDocumentRepository(db *mongo.Database) DocumentRepository {
	return &mongoDocumentRepository{db: db}
}

func (r *mongoDocumentRepository) Initialized() bool {
	return r.db != nil
}

func (r *mongoDocumentRepository) CreateDocument(ctx context.Context, collection string, record map[string]interface{}) (string, error) {
	if r.db == nil {
		return "", ErrDatabaseUnavailable
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return "", ErrCollectionRequired
	}

	doc := make(bson.M, len(record)+1)
	for key, value := range record {
		doc[key] = value
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}

	result, err := r.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	switch id := result.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

func (r *mongoDocumentRepository) ListCollections(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, ErrDatabaseUnavailable
	}

	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
