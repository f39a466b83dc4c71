// Package diag records structural events to a SQLite database so a siege
// run can be inspected after the fact with plain SQL.
package diag

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"siegebreak/ecs"
)

// Recorder appends joint and shockwave events to a database file.
type Recorder struct {
	db *sql.DB
}

// Open creates or opens the database at path and prepares the schema.
func Open(path string) (*Recorder, error) {
	if path == "" {
		return nil, fmt.Errorf("diag: empty db path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Recorder{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS joints (
			tick INTEGER NOT NULL,
			joint INTEGER NOT NULL,
			block_a INTEGER NOT NULL,
			block_b INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS fractures (
			tick INTEGER NOT NULL,
			joint INTEGER NOT NULL,
			block_a INTEGER NOT NULL,
			block_b INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS shockwaves (
			tick INTEGER NOT NULL,
			block INTEGER NOT NULL,
			magnitude REAL NOT NULL,
			fractured INTEGER NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Record writes one tick's drained events.
func (r *Recorder) Record(tick int64, events []ecs.Event) error {
	if r == nil || r.db == nil || len(events) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, evt := range events {
		switch data := evt.Data.(type) {
		case ecs.JointBuiltEvent:
			_, err = tx.Exec("INSERT INTO joints (tick, joint, block_a, block_b) VALUES (?, ?, ?, ?)",
				tick, uint64(data.Joint), uint64(data.A), uint64(data.B))
		case ecs.JointBrokenEvent:
			_, err = tx.Exec("INSERT INTO fractures (tick, joint, block_a, block_b) VALUES (?, ?, ?, ?)",
				tick, uint64(data.Joint), uint64(data.A), uint64(data.B))
		case ecs.ShockwaveEvent:
			_, err = tx.Exec("INSERT INTO shockwaves (tick, block, magnitude, fractured) VALUES (?, ?, ?, ?)",
				tick, uint64(data.Block), data.Magnitude, data.Fractured)
		}
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
