package repository

import (
	"context"
	"fmt"
)

type unavailableDocumentRepository struct {
	reason error
}

// NewUnavailableDocumentRepository stands in for a database that failed to connect.
// It reports itself as not initialized and rejects every write.
func NewUnavailableDocumentRepository(reason error) DocumentRepository {
	return &unavailableDocumentRepository{reason: reason}
}

func (r *unavailableDocumentRepository) Initialized() bool {
	return false
}

func (r *unavailableDocumentRepository) CreateDocument(context.Context, string, map[string]interface{}) (string, error) {
	return "", r.err()
}

func (r *unavailableDocumentRepository) ListCollections(context.Context) ([]string, error) {
	return nil, r.err()
}

func (r *unavailableDocumentRepository) err() error {
	if r.reason == nil {
		return ErrDatabaseUnavailable
	}
	return fmt.Errorf("%w: %v", ErrDatabaseUnavailable, r.reason)
}
