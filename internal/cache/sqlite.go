package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const reportCacheSchema = `
CREATE TABLE IF NOT EXISTS report_cache (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	query_key TEXT UNIQUE NOT NULL,
	payload_json TEXT NOT NULL,
	fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	ttl_seconds INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_report_cache_fetched_at ON report_cache(fetched_at);
`

func NewWithPath(path string) (Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging cache database: %w", err)
	}
	if _, err := conn.Exec(reportCacheSchema); err != nil {
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &sqliteCache{db: conn}, nil
}
