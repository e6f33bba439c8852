package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// TimestampLayout is the fixed-width UTC layout every created_at value is
// rewritten to.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

func init() {
	RegisterGoMigration(3, Up_000003_normalize_task_timestamps, Down_000003_normalize_task_timestamps)
}

// Up_000003_normalize_task_timestamps rewrites task creation times into
// TimestampLayout so that ordering by created_at is chronological. It
// accepts RFC3339 with or without fractions, and Go's default time.String
// output including monotonic suffixes and zone names. Values that cannot be
// parsed are set to NULL, which reads back as the distant past.
func Up_000003_normalize_task_timestamps(ctx context.Context, tx *sqlx.Tx) error {
	type row struct {
		ID        int64          `db:"id"`
		CreatedAt sql.NullString `db:"created_at"`
	}
	var rows []row
	if err := tx.SelectContext(ctx, &rows, "SELECT id, created_at FROM tasks"); err != nil {
		return fmt.Errorf("failed to query tasks: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, "UPDATE tasks SET created_at = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare created_at update statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if !r.CreatedAt.Valid {
			continue
		}
		var value interface{}
		if normalized, err := normalizeTimestamp(r.CreatedAt.String); err == nil {
			if normalized == r.CreatedAt.String {
				continue
			}
			value = normalized
		}
		if _, err := stmt.ExecContext(ctx, value, r.ID); err != nil {
			return fmt.Errorf("failed to update created_at for task %d: %w", r.ID, err)
		}
	}
	return nil
}

// Down_000003_normalize_task_timestamps is a no-op: the normalized values
// are valid RFC3339 and remain readable.
func Down_000003_normalize_task_timestamps(ctx context.Context, tx *sqlx.Tx) error {
	return nil
}

func normalizeTimestamp(s string) (string, error) {
	s = stripMonotonicSuffix(strings.TrimSpace(s))

	layouts := []string{
		TimestampLayout,
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999 -0700 MST",
		"2006-01-02 15:04:05.999999999 -0700",
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(TimestampLayout), nil
		}
	}
	return "", fmt.Errorf("could not parse time format: %s", s)
}

func stripMonotonicSuffix(s string) string {
	if idx := strings.Index(s, " m="); idx != -1 {
		return s[:idx]
	}
	return s
}
