package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/TeamkillBot_Go/internal/database"
	"github.com/osse101/TeamkillBot_Go/internal/domain"
)

var liveLinkColumns = []string{
	"guild_id", "channel_id", "message_id", "slug", "count_token", "last_hash", "position",
}

// PostgresStore keeps one row per live link.
type PostgresStore struct {
	pool  *pgxpool.Pool
	owned bool
}

// OpenPostgresStore connects, migrates, and returns a store that owns its pool.
func OpenPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := database.NewPool(ctx, databaseURL,
		database.DefaultMaxConnections, database.DefaultMaxConnIdleTime, database.DefaultMaxConnLifetime)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, owned: true}, nil
}

// NewPostgresStore wraps an already migrated pool. Close leaves the pool open.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Load returns all rows in insertion order.
func (s *PostgresStore) Load(ctx context.Context) ([]domain.LinkEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT guild_id, channel_id, message_id, slug, COALESCE(count_token, ''), last_hash
		FROM live_links
		ORDER BY position, guild_id, channel_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query live links: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LinkEntry, error) {
		var e domain.LinkEntry
		var token string
		err := row.Scan(&e.GuildID, &e.ChannelID, &e.MessageID, &e.Slug, &token, &e.LastHash)
		e.CountToken = domain.Token(token)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan live links: %w", err)
	}
	return entries, nil
}

// Save replaces the table contents in one transaction.
func (s *PostgresStore) Save(ctx context.Context, entries []domain.LinkEntry) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToBeginTransaction, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM live_links`); err != nil {
		return fmt.Errorf("failed to clear live links: %w", err)
	}

	rows := make([][]any, 0, len(entries))
	for i, e := range entries {
		var token any
		if !e.CountToken.IsZero() {
			token = string(e.CountToken)
		}
		rows = append(rows, []any{e.GuildID, e.ChannelID, e.MessageID, e.Slug, token, e.LastHash, i})
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"live_links"}, liveLinkColumns, pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("failed to write live links: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit live links: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool when the store opened it.
func (s *PostgresStore) Close() error {
	if s.owned {
		s.pool.Close()
	}
	return nil
}
