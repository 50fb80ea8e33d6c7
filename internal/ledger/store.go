package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"annunciator/internal/backend"
	"annunciator/internal/config"
)

// Store persists the asset ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// timestampLayout has a fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const assetColumns = "id, session_id, kind, filename, url, status, attempts, error_message, created_at, updated_at, deleted_at"

// Open connects to the ledger under the configured state directory, creating
// it on first use.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return openPath(cfg.LedgerPath())
}

func openPath(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record adds a freshly issued asset.
func (s *Store) Record(ctx context.Context, sessionID string, kind backend.AssetKind, filename, url string) (*Asset, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, errors.New("record asset: filename is empty")
	}
	if kind != backend.AssetAudio && kind != backend.AssetVideo {
		return nil, fmt.Errorf("record asset: unknown kind %q", kind)
	}
	timestamp := time.Now().UTC().Format(timestampLayout)
	res, err := s.execWithRetry(ctx,
		`INSERT INTO assets (session_id, kind, filename, url, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		string(kind),
		filename,
		nullableString(url),
		StatusIssued,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one row, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*Asset, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// MarkDeleted closes every pending row for the asset. It returns the number
// of rows changed; zero is not an error.
func (s *Store) MarkDeleted(ctx context.Context, kind backend.AssetKind, filename string) (int64, error) {
	timestamp := time.Now().UTC().Format(timestampLayout)
	res, err := s.execWithRetry(ctx,
		`UPDATE assets
         SET status = ?, deleted_at = ?, updated_at = ?, attempts = attempts + 1, error_message = NULL
         WHERE kind = ? AND filename = ? AND status IN (?, ?)`,
		StatusDeleted, timestamp, timestamp,
		string(kind), filename, StatusIssued, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("mark deleted: %w", err)
	}
	return res.RowsAffected()
}

// MarkFailed records an unsuccessful deletion attempt. The row stays pending.
func (s *Store) MarkFailed(ctx context.Context, kind backend.AssetKind, filename string, cause error) (int64, error) {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	timestamp := time.Now().UTC().Format(timestampLayout)
	res, err := s.execWithRetry(ctx,
		`UPDATE assets
         SET status = ?, updated_at = ?, attempts = attempts + 1, error_message = ?
         WHERE kind = ? AND filename = ? AND status IN (?, ?)`,
		StatusFailed, timestamp, nullableString(message),
		string(kind), filename, StatusIssued, StatusFailed,
	)
	if err != nil {
		return 0, fmt.Errorf("mark failed: %w", err)
	}
	return res.RowsAffected()
}

// MarkSwept closes every pending row of kind issued at or before cutoff.
// A backend-wide sweep removes all files of a kind, so any row it covered
// is gone.
func (s *Store) MarkSwept(ctx context.Context, kind backend.AssetKind, cutoff time.Time) (int64, error) {
	timestamp := time.Now().UTC().Format(timestampLayout)
	res, err := s.execWithRetry(ctx,
		`UPDATE assets
         SET status = ?, deleted_at = ?, updated_at = ?, error_message = NULL
         WHERE kind = ? AND status IN (?, ?) AND created_at <= ?`,
		StatusDeleted, timestamp, timestamp,
		string(kind), StatusIssued, StatusFailed, cutoff.UTC().Format(timestampLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("mark swept: %w", err)
	}
	return res.RowsAffected()
}

// Pending returns issued and failed rows whose session differs from
// excludeSession, oldest first. An empty excludeSession returns all of them.
func (s *Store) Pending(ctx context.Context, excludeSession string) ([]*Asset, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+assetColumns+` FROM assets
         WHERE status IN (?, ?) AND session_id <> ?
         ORDER BY id`,
		StatusIssued, StatusFailed, excludeSession,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// List returns rows matching filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]*Asset, error) {
	var (
		clauses []string
		args    []any
	)
	if len(filter.Statuses) > 0 {
		clauses = append(clauses, "status IN ("+makePlaceholders(len(filter.Statuses))+")")
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	query := `SELECT ` + assetColumns + ` FROM assets`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// Counts returns the number of rows per status.
func (s *Store) Counts(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM assets GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count assets: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int, 3)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Status(status)] = count
	}
	return counts, rows.Err()
}

// Prune removes deleted rows whose deletion is older than olderThan.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timestampLayout)
	res, err := s.execWithRetry(ctx,
		`DELETE FROM assets WHERE status = ? AND deleted_at IS NOT NULL AND deleted_at < ?`,
		StatusDeleted, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("prune assets: %w", err)
	}
	return res.RowsAffected()
}

func collectAssets(rows *sql.Rows) ([]*Asset, error) {
	var assets []*Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assets: %w", err)
	}
	return assets, nil
}
