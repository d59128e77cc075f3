package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNoDatabaseName is returned when a MongoDB URL names no database and DATABASE_NAME is blank.
var ErrNoDatabaseName = errors.New("database name not configured")

const mongoServerSelectionTimeout = 5 * time.Second

// ConnectMongo opens a MongoDB client, pings the primary and selects the named database.
// When name is blank the database from the URL path is used.
func ConnectMongo(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	if uri == "" {
		return nil, nil, fmt.Errorf("mongo url must not be empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = mongoDatabaseFromURL(uri)
	}
	if name == "" {
		return nil, nil, ErrNoDatabaseName
	}

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(mongoServerSelectionTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("unable to connect to mongo: %w", err)
	}

	return client, client.Database(name), nil
}

// mongoDatabaseFromURL returns the path segment of mongodb://host[,host]/<db>?opts.
func mongoDatabaseFromURL(uri string) string {
	idx := strings.Index(uri, "://")
	if idx < 0 {
		return ""
	}
	rest := uri[idx+3:]
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return ""
	}
	name := rest[slash+1:]
	if q := strings.IndexAny(name, "?#"); q >= 0 {
		name = name[:q]
	}
	return strings.TrimSpace(name)
}
