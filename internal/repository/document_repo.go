package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/portfolio-api/internal/models"
)

var (
	// ErrDatabaseUnavailable indicates no initialized database handle backs the repository.
	ErrDatabaseUnavailable = errors.New("database not available")
	// ErrCollectionRequired indicates a document was written without a collection name.
	ErrCollectionRequired = errors.New("collection name must not be empty")
)

// DocumentStore appends schemaless records to named collections.
type DocumentStore interface {
	CreateDocument(ctx context.Context, collection string, record map[string]interface{}) (string, error)
}

// DatabaseInspector exposes introspection used by the diagnostics endpoint.
type DatabaseInspector interface {
	Initialized() bool
	ListCollections(ctx context.Context) ([]string, error)
}

// DocumentRepository is a document store that can also describe itself.
type DocumentRepository interface {
	DocumentStore
	DatabaseInspector
}

type gormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository constructs a repository backed by GORM.
func NewGormDocumentRepository(db *gorm.DB) DocumentRepository {
	return &gormDocumentRepository{db: db}
}

// MigrateDocuments creates the documents table when missing.
func MigrateDocuments(db *gorm.DB) error {
	if db == nil {
		return ErrDatabaseUnavailable
	}
	return db.AutoMigrate(&models.Document{})
}

func (r *gormDocumentRepository) Initialized() bool {
	return r.db != nil
}

func (r *gormDocumentRepository) CreateDocument(ctx context.Context, collection string, record map[string]interface{}) (string, error) {
	if r.db == nil {
		return "", ErrDatabaseUnavailable
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return "", ErrCollectionRequired
	}

	doc := models.Document{
		ID:         uuid.NewString(),
		Collection: collection,
		Data:       datatypes.JSONMap(record),
	}
	if err := r.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	return doc.ID, nil
}

func (r *gormDocumentRepository) ListCollections(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, ErrDatabaseUnavailable
	}

	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Distinct().
		Order("collection").
		Pluck("collection", &names).
		Error
	if err != nil {
		return nil, err
	}

	return names, nil
}
