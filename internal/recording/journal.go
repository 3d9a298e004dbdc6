package recording

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the selection journal.
const schema = `
CREATE TABLE IF NOT EXISTS selections (
    id           TEXT PRIMARY KEY,
    session_id   TEXT NOT NULL,
    character    TEXT NOT NULL,
    strokes      TEXT NOT NULL,
    candidates   TEXT NOT NULL,
    recorded_ns  INTEGER NOT NULL,
    delivered    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_selections_delivered ON selections(delivered, recorded_ns);
CREATE INDEX IF NOT EXISTS idx_selections_session ON selections(session_id);
`

// Journal is a local SQLite journal of selections, kept so training data
// survives collector outages.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens or creates the journal database at the given path.
func OpenJournal(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Record inserts a selection. Re-recording the same selection ID is a
// no-op.
func (j *Journal) Record(ctx context.Context, sel Selection) error {
	strokes, err := json.Marshal(sel.Strokes)
	if err != nil {
		return fmt.Errorf("encode strokes: %w", err)
	}
	candidates, err := json.Marshal(sel.Candidates)
	if err != nil {
		return fmt.Errorf("encode candidates: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO selections
		(id, session_id, character, strokes, candidates, recorded_ns, delivered)
		VALUES (?, ?, ?, ?, ?, ?, 0)`,
		sel.ID, sel.SessionID, sel.Character,
		string(strokes), string(candidates), sel.RecordedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert selection: %w", err)
	}
	return nil
}

// Close implements Recorder.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Undelivered returns up to limit selections not yet marked delivered,
// oldest first.
func (j *Journal) Undelivered(ctx context.Context, limit int) ([]Selection, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, session_id, character, strokes, candidates, recorded_ns
		FROM selections WHERE delivered = 0
		ORDER BY recorded_ns ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query undelivered: %w", err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var sel Selection
		var strokes, candidates string
		var recordedNS int64
		if err := rows.Scan(&sel.ID, &sel.SessionID, &sel.Character,
			&strokes, &candidates, &recordedNS); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		if err := json.Unmarshal([]byte(strokes), &sel.Strokes); err != nil {
			return nil, fmt.Errorf("decode strokes: %w", err)
		}
		if err := json.Unmarshal([]byte(candidates), &sel.Candidates); err != nil {
			return nil, fmt.Errorf("decode candidates: %w", err)
		}
		sel.RecordedAt = time.Unix(0, recordedNS).UTC()
		out = append(out, sel)
	}
	return out, rows.Err()
}

// MarkDelivered flags a selection as delivered to the collector.
func (j *Journal) MarkDelivered(ctx context.Context, id string) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE selections SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}

// Count returns the total number of journaled selections.
func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM selections`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count selections: %w", err)
	}
	return n, nil
}
