package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisCollectionsKey = "document:collections"

type redisDocumentRepository struct {
	client *redis.Client
}

// NewRedisDocumentRepository stores each document as a JSON string keyed by collection and id.
func NewRedisDocumentRepository(client *redis.Client) DocumentRepository {
	return &redisDocumentRepository{client: client}
}

func redisDocumentKey(collection, id string) string {
	return fmt.Sprintf("document:%s:%s", collection, id)
}

func (r *redisDocumentRepository) Initialized() bool {
	return r.client != nil
}

func (r *redisDocumentRepository) CreateDocument(ctx context.Context, collection string, record map[string]interface{}) (string, error) {
	if r.client == nil {
		return "", ErrDatabaseUnavailable
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return "", ErrCollectionRequired
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	id := uuid.NewString()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisDocumentKey(collection, id), payload, 0)
		pipe.SAdd(ctx, redisCollectionsKey, collection)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}

	return id, nil
}

func (r *redisDocumentRepository) ListCollections(ctx context.Context) ([]string, error) {
	if r.client == nil {
		return nil, ErrDatabaseUnavailable
	}

	names, err := r.client.SMembers(ctx, redisCollectionsKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}
