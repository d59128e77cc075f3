package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Driver identifies the backend selected from DATABASE_URL.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverRedis    Driver = "redis"
	DriverMongo    Driver = "mongo"
)

// ErrNoDatabaseURL is returned by Open when DATABASE_URL is blank.
var ErrNoDatabaseURL = errors.New("database url not configured")

// Connection is an open handle to one of the supported backends.
// Exactly one of SQL, Redis or Mongo is set; MongoDB is the selected database on Mongo.
type Connection struct {
	Driver  Driver
	SQL     *gorm.DB
	Redis   *redis.Client
	Mongo   *mongo.Client
	MongoDB *mongo.Database
}

// Close releases the underlying client.
func (c *Connection) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		return c.Redis.Close()
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.Mongo.Disconnect(ctx)
	}
	if c.SQL != nil {
		sqlDB, err := c.SQL.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}

// DetectDriver maps a connection URL to a backend.
func DetectDriver(url string) (Driver, error) {
	lower := strings.ToLower(strings.TrimSpace(url))
	switch {
	case lower == "":
		return "", ErrNoDatabaseURL
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(lower, "sqlite://"), strings.HasPrefix(lower, "file:"):
		return DriverSQLite, nil
	case strings.HasPrefix(lower, "redis://"), strings.HasPrefix(lower, "rediss://"):
		return DriverRedis, nil
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("unsupported database url scheme in %q", redactURL(url))
	}
}

// Open connects to the backend named by url. name selects the database on MongoDB
// and is ignored by the other drivers.
func Open(ctx context.Context, url, name string) (*Connection, error) {
	driver, err := DetectDriver(url)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverPostgres:
		db, err := ConnectPostgres(ctx, url)
		if err != nil {
			return nil, err
		}
		return &Connection{Driver: driver, SQL: db}, nil
	case DriverSQLite:
		db, err := ConnectSQLite(sqlitePath(url))
		if err != nil {
			return nil, err
		}
		return &Connection{Driver: driver, SQL: db}, nil
	case DriverMongo:
		client, db, err := ConnectMongo(ctx, url, name)
		if err != nil {
			return nil, err
		}
		return &Connection{Driver: driver, Mongo: client, MongoDB: db}, nil
	default:
		client, err := ConnectRedis(ctx, url)
		if err != nil {
			return nil, err
		}
		return &Connection{Driver: driver, Redis: client}, nil
	}
}

// sqlitePath drops the sqlite:// scheme in any letter case; file: URIs pass through.
func sqlitePath(url string) string {
	trimmed := strings.TrimSpace(url)
	const scheme = "sqlite://"
	if len(trimmed) >= len(scheme) && strings.EqualFold(trimmed[:len(scheme)], scheme) {
		return trimmed[len(scheme):]
	}
	return trimmed
}

func redactURL(url string) string {
	if idx := strings.Index(url, "://"); idx >= 0 {
		return url[:idx+3] + "***"
	}
	return "***"
}
