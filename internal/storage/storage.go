// Package storage provides durable backends for the live-link registry.
// Each backend persists the whole registry as one record.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/osse101/TeamkillBot_Go/internal/domain"
)

// Driver names accepted by Open.
const (
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Store is a registry backend.
type Store interface {
	Load(ctx context.Context) ([]domain.LinkEntry, error)
	Save(ctx context.Context, entries []domain.LinkEntry) error
	Ping(ctx context.Context) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Path        string
	RedisURL    string
	RedisKey    string
	DatabaseURL string
}

// Open constructs the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFileStore(opts.Path), nil
	case DriverRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisKey)
	case DriverPostgres:
		return OpenPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// document is the serialized registry, shared by the file and redis backends.
type document struct {
	Links []domain.LinkEntry `json:"links"`
}

func encode(entries []domain.LinkEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.LinkEntry{}
	}
	data, err := json.MarshalIndent(document{Links: entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode registry: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]domain.LinkEntry, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode registry: %w", err)
	}
	return doc.Links, nil
}
