package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	zerrors "github.com/zero-assistant/zeroindex/internal/errors"
)

// DocumentRecord describes one successful ingestion.
type DocumentRecord struct {
	ID             string
	Namespace      string
	Filename       string
	FragmentsAdded int
	IngestedAt     time.Time
}

// NamespaceStats summarizes a namespace for reporting.
type NamespaceStats struct {
	Namespace      string
	Documents      int
	TotalFragments int
	LastIngestedAt time.Time
}

// registryTimeFormat is RFC3339 with a fixed-width fraction so stored
// timestamps sort lexicographically in ORDER BY and MAX().
const registryTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Registry records ingested documents in SQLite. It is bookkeeping for
// listing and stats only; the JSON index file stays the source of truth
// for retrieval.
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens (or creates) the registry database at path.
func OpenRegistry(path string) (*Registry, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
				fmt.Sprintf("cannot create registry directory %s", dir), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			fmt.Sprintf("cannot open registry %s", path), err)
	}

	// Single connection keeps writes serialized; the registry is low
	// traffic.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
				"cannot set registry pragma", err)
		}
	}

	r := &Registry{db: db}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Registry) initSchema() error {
	// ingested_at is stored as a fixed-width RFC3339 string: SQLite has
	// no real time type, and aggregates like MAX() come back as plain
	// strings under the modernc driver, so times are parsed explicitly
	// on read.
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		namespace TEXT NOT NULL,
		filename TEXT NOT NULL,
		fragments_added INTEGER NOT NULL,
		ingested_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_namespace ON documents(namespace);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			"cannot initialize registry schema", err)
	}
	return nil
}

// Record stores one successful ingestion and returns its id.
func (r *Registry) Record(ctx context.Context, namespace, filename string, fragmentsAdded int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, namespace, filename, fragments_added, ingested_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, namespace, filename, fragmentsAdded,
		time.Now().UTC().Format(registryTimeFormat))
	if err != nil {
		return "", zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			fmt.Sprintf("cannot record document %s", filename), err)
	}
	return id, nil
}

// List returns a namespace's document records, newest first.
func (r *Registry) List(ctx context.Context, namespace string) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, namespace, filename, fragments_added, ingested_at
		 FROM documents WHERE namespace = ? ORDER BY ingested_at DESC, id`,
		namespace)
	if err != nil {
		return nil, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			fmt.Sprintf("cannot list documents for %s", namespace), err)
	}
	defer rows.Close()

	var records []DocumentRecord
	for rows.Next() {
		var rec DocumentRecord
		var ingestedAt string
		if err := rows.Scan(&rec.ID, &rec.Namespace, &rec.Filename,
			&rec.FragmentsAdded, &ingestedAt); err != nil {
			return nil, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
				"cannot scan document record", err)
		}
		rec.IngestedAt, err = parseRegistryTime(ingestedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			"document listing failed", err)
	}
	return records, nil
}

// Stats aggregates a namespace's ingestion history.
func (r *Registry) Stats(ctx context.Context, namespace string) (NamespaceStats, error) {
	stats := NamespaceStats{Namespace: namespace}

	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(fragments_added), 0), MAX(ingested_at)
		 FROM documents WHERE namespace = ?`,
		namespace)

	var last sql.NullString
	if err := row.Scan(&stats.Documents, &stats.TotalFragments, &last); err != nil {
		return stats, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			fmt.Sprintf("cannot compute stats for %s", namespace), err)
	}
	if last.Valid {
		ts, err := parseRegistryTime(last.String)
		if err != nil {
			return stats, err
		}
		stats.LastIngestedAt = ts
	}
	return stats, nil
}

// parseRegistryTime reads back an ingested_at column value.
func parseRegistryTime(s string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, zerrors.IndexIOError(zerrors.ErrCodeRegistry,
			fmt.Sprintf("cannot parse registry timestamp %q", s), err)
	}
	return ts, nil
}

// Close releases the registry database.
func (r *Registry) Close() error {
	return r.db.Close()
}
