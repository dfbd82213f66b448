package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modinc01/go-nogo-scraper/internal/models"
)

// Cache stores serialized market reports keyed by normalized query, so
// repeated lookups for the same product within the TTL skip the upstream
// fetch entirely.
type Cache interface {
	Get(ctx context.Context, key string) (*models.CachedReport, error)
	Set(ctx context.Context, key string, payload interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ClearExpired(ctx context.Context) error
	ClearAll(ctx context.Context) error
}

type sqliteCache struct {
	db *sql.DB
}

func New(db *sql.DB) Cache {
	return &sqliteCache{db: db}
}

func (c *sqliteCache) Get(ctx context.Context, key string) (*models.CachedReport, error) {
	var cached models.CachedReport
	var fetchedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT id, query_key, payload_json, fetched_at, ttl_seconds
		FROM report_cache
		WHERE query_key = ? AND datetime(fetched_at, '+' || ttl_seconds || ' seconds') > datetime('now')
		ORDER BY fetched_at DESC
		LIMIT 1
	`, key).Scan(
		&cached.ID, &cached.QueryKey, &cached.PayloadJSON, &fetchedAt, &cached.TTLSeconds,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("querying cache: %w", err)
	}

	parsedTime, err := time.Parse("2006-01-02 15:04:05", fetchedAt)
	if err != nil {
		parsedTime, err = time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing fetched_at time: %w", err)
		}
	}
	cached.FetchedAt = parsedTime

	return &cached, nil
}

func (c *sqliteCache) Set(ctx context.Context, key string, payload interface{}, ttl time.Duration) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO report_cache
		(query_key, payload_json, fetched_at, ttl_seconds)
		VALUES (?, ?, CURRENT_TIMESTAMP, ?)
	`, key, string(payloadJSON), int(ttl.Seconds()))

	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	return nil
}

func (c *sqliteCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM report_cache WHERE query_key = ?
	`, key)

	return err
}

func (c *sqliteCache) ClearExpired(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM report_cache
		WHERE datetime(fetched_at, '+' || ttl_seconds || ' seconds') <= datetime('now')
	`)

	return err
}

func (c *sqliteCache) ClearAll(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM report_cache")
	return err
}
