package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"annunciator/internal/backend"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*Asset, error) {
	var (
		id         int64
		sessionID  string
		kind       string
		filename   string
		url        sql.NullString
		status     string
		attempts   int
		errMessage sql.NullString
		createdRaw string
		updatedRaw string
		deletedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &sessionID, &kind, &filename, &url, &status, &attempts, &errMessage, &createdRaw, &updatedRaw, &deletedRaw); err != nil {
		return nil, err
	}
	asset := &Asset{
		ID:           id,
		SessionID:    sessionID,
		Kind:         backend.AssetKind(kind),
		Filename:     filename,
		URL:          url.String,
		Status:       Status(status),
		Attempts:     attempts,
		ErrorMessage: errMessage.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		asset.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		asset.UpdatedAt = updated
	}
	if deletedRaw.Valid {
		if deleted, err := parseTimeString(deletedRaw.String); err == nil {
			asset.DeletedAt = &deleted
		}
	}
	return asset, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(timestampLayout, value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", count), ",")
}
