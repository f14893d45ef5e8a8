package artifact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver
)

const createArtifactsTable = `
	CREATE TABLE IF NOT EXISTS artifacts (
		name       TEXT NOT NULL,
		content    TEXT NOT NULL,
		written_at TIMESTAMP NOT NULL
	)`

// SQLWriter appends every artifact version to an artifacts table.
type SQLWriter struct {
	db     *sql.DB
	insert string
}

// NewSQLWriter opens the database and ensures the artifacts table exists.
func NewSQLWriter(ctx context.Context, driver, dsn string) (*SQLWriter, error) {
	var insert string
	switch driver {
	case "sqlite":
		insert = "INSERT INTO artifacts (name, content, written_at) VALUES (?, ?, ?)"
	case "postgres":
		insert = "INSERT INTO artifacts (name, content, written_at) VALUES ($1, $2, $3)"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, createArtifactsTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create artifacts table: %w", err)
	}

	return &SQLWriter{db: db, insert: insert}, nil
}

// Write inserts a new row for the artifact.
func (s *SQLWriter) Write(ctx context.Context, name, content string) error {
	if _, err := s.db.ExecContext(ctx, s.insert, name, content, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to insert artifact %s: %w", name, err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLWriter) Close() error {
	return s.db.Close()
}
