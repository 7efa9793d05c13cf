// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: history/journal.go
// Summary: SQLite journal of app launches from the boot menu.
// Usage: Optional; enabled by the history_db config key.

package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/framegrace/bootmenu/registry"
	_ "modernc.org/sqlite"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS launches (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    callable TEXT NOT NULL,
    focus_idx INTEGER NOT NULL,
    launched_at INTEGER NOT NULL      -- UnixNano
);

CREATE INDEX IF NOT EXISTS idx_launches_app ON launches(path, callable);
`

// Launch is one journal row.
type Launch struct {
	Key        registry.Key
	FocusIdx   int
	LaunchedAt time.Time
}

// Journal records launches in a SQLite database.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the journal at dbPath.
func Open(dbPath string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dsn := dbPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// RecordLaunch appends a launch of key made from menu position focusIdx.
func (j *Journal) RecordLaunch(key registry.Key, focusIdx int) error {
	_, err := j.db.Exec(
		"INSERT INTO launches (path, callable, focus_idx, launched_at) VALUES (?, ?, ?, ?)",
		key.Path, key.Callable, focusIdx, j.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("record launch: %w", err)
	}
	return nil
}

// Counts returns the number of launches per app.
func (j *Journal) Counts() (map[registry.Key]int, error) {
	rows, err := j.db.Query("SELECT path, callable, COUNT(*) FROM launches GROUP BY path, callable")
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[registry.Key]int)
	for rows.Next() {
		var key registry.Key
		var n int
		if err := rows.Scan(&key.Path, &key.Callable, &n); err != nil {
			return nil, fmt.Errorf("scan counts: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

// Recent returns up to limit launches, newest first.
func (j *Journal) Recent(limit int) ([]Launch, error) {
	rows, err := j.db.Query(
		"SELECT path, callable, focus_idx, launched_at FROM launches ORDER BY launched_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var launches []Launch
	for rows.Next() {
		var l Launch
		var ts int64
		if err := rows.Scan(&l.Key.Path, &l.Key.Callable, &l.FocusIdx, &ts); err != nil {
			return nil, fmt.Errorf("scan recent: %w", err)
		}
		l.LaunchedAt = time.Unix(0, ts)
		launches = append(launches, l)
	}
	return launches, rows.Err()
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
