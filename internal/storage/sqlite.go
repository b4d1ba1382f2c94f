package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mathmark/internal/element"
	"mathmark/internal/geom"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			canvas_width REAL,
			canvas_height REAL,
			updated_at INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS elements (
			session_id TEXT,
			seq INTEGER,
			element_id TEXT,
			x REAL,
			y REAL,
			width REAL,
			height REAL,
			PRIMARY KEY (session_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_elements_session ON elements(session_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveSession(ctx context.Context, rec SessionRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, canvas_width, canvas_height, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			canvas_width=excluded.canvas_width,
			canvas_height=excluded.canvas_height,
			updated_at=excluded.updated_at
	`, rec.ID, rec.Canvas.Width, rec.Canvas.Height, rec.UpdatedAt.UnixNano()); err != nil {
		return err
	}

	// Snapshot semantics: the previous element set is replaced, not merged.
	if _, err := tx.ExecContext(ctx, `DELETE FROM elements WHERE session_id = ?`, rec.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO elements (session_id, seq, element_id, x, y, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range rec.Elements {
		b := e.Bounds
		if _, err := stmt.ExecContext(ctx, rec.ID, i, e.ID.String(), b.X, b.Y, b.Width, b.Height); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) LoadSession(ctx context.Context, id string) (*SessionRecord, error) {
	rec := SessionRecord{ID: id}
	var updated int64
	row := s.db.QueryRowContext(ctx, "SELECT canvas_width, canvas_height, updated_at FROM sessions WHERE id = ?", id)
	if err := row.Scan(&rec.Canvas.Width, &rec.Canvas.Height, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	rec.UpdatedAt = time.Unix(0, updated)

	rows, err := s.db.QueryContext(ctx, "SELECT element_id, x, y, width, height FROM elements WHERE session_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("failed to query elements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rawID string
		var b geom.Rect
		if err := rows.Scan(&rawID, &b.X, &b.Y, &b.Width, &b.Height); err != nil {
			return nil, fmt.Errorf("failed to scan element: %w", err)
		}
		rec.Elements = append(rec.Elements, element.SemanticElement{ID: element.ParseID(rawID), Bounds: b})
	}
	return &rec, rows.Err()
}

func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM elements WHERE session_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListSessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM sessions ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
