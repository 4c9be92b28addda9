package production

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/primitives"
)

// SQLitePersister keeps the latest snapshot per store plus a version history.
type SQLitePersister struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLitePersister opens (or creates) the database at path.
// Use ":memory:" for a throwaway database. Pass nil logger for slog.Default().
func NewSQLitePersister(path string, logger *slog.Logger) (*SQLitePersister, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sqlite_persister")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	p := &SQLitePersister{db: db, logger: logger}
	if err := p.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debug("sqlite persister initialized", "path", path)
	return p, nil
}

func (p *SQLitePersister) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS a11y_snapshots (
			store_id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			state TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS a11y_snapshot_history (
			store_id TEXT NOT NULL,
			version INTEGER NOT NULL,
			state TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (store_id, version)
		);
	`
	_, err := p.db.Exec(schema)
	return err
}

// Save upserts the latest snapshot and appends it to the history.
func (p *SQLitePersister) Save(ctx context.Context, snapshot primitives.Snapshot) error {
	state, err := json.Marshal(snapshot.State)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	ts := snapshot.Timestamp.UTC().Format(time.RFC3339Nano)

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO a11y_snapshots (store_id, version, state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(store_id) DO UPDATE SET
			version = excluded.version,
			state = excluded.state,
			updated_at = excluded.updated_at
	`, snapshot.StoreID, snapshot.Version, string(state), ts)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO a11y_snapshot_history (store_id, version, state, created_at)
		VALUES (?, ?, ?, ?)
	`, snapshot.StoreID, snapshot.Version, string(state), ts)
	if err != nil {
		return fmt.Errorf("appending history: %w", err)
	}

	return tx.Commit()
}

// Load returns the latest snapshot for storeID.
func (p *SQLitePersister) Load(ctx context.Context, storeID string) (primitives.Snapshot, error) {
	row := p.db.QueryRowContext(ctx, `
		SELECT version, state, updated_at FROM a11y_snapshots WHERE store_id = ?
	`, storeID)

	snap, err := scanSnapshot(storeID, row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return primitives.Snapshot{}, fmt.Errorf("store %q: %w", storeID, core.ErrNotFound)
	}
	return snap, err
}

// History returns up to limit snapshots for storeID, newest first.
func (p *SQLitePersister) History(ctx context.Context, storeID string, limit int) ([]primitives.Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT version, state, created_at FROM a11y_snapshot_history
		WHERE store_id = ?
		ORDER BY version DESC
		LIMIT ?
	`, storeID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []primitives.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(storeID, rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Close closes the database.
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}

func scanSnapshot(storeID string, scan func(dest ...any) error) (primitives.Snapshot, error) {
	var (
		version uint64
		state   string
		ts      string
	)
	if err := scan(&version, &state, &ts); err != nil {
		return primitives.Snapshot{}, err
	}

	snap := primitives.Snapshot{StoreID: storeID, Version: version}
	if err := json.Unmarshal([]byte(state), &snap.State); err != nil {
		return primitives.Snapshot{}, fmt.Errorf("decoding state v%d: %w", version, err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return primitives.Snapshot{}, fmt.Errorf("parsing timestamp %q: %w", ts, err)
	}
	snap.Timestamp = parsed
	return snap, nil
}
