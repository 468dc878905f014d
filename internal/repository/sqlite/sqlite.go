// Package sqlite implements the repository interfaces on a local SQLite file.
//
// WHY A LOCAL BACKEND?
// Production data lives in Firestore and the Realtime Database. Those need
// credentials and network access, which makes "clone and run" and fast tests
// impossible. This package implements the same contracts against one file
// (or ":memory:"), so the whole HTTP surface works offline.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no C compiler, no CGo, cross
// compiles like any other Go package.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out one store per table.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and makes sure the tables
// exist.
//
// dbPath examples:
//   - "data/foodgallery.db" → file-based database (persistent)
//   - ":memory:"            → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each new connection to ":memory:" is a separate, empty database.
	// A single connection keeps every query on the same one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows readers while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.bootstrap(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: creating tables: %w", err)
	}

	return db, nil
}

// Users, Posts and Tips return the per-table stores. They share the pool,
// so they are cheap to create and need no separate Close.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

func (db *DB) Posts() *PostStore { return &PostStore{conn: db.conn} }

func (db *DB) Tips() *TipStore { return &TipStore{conn: db.conn} }

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// bootstrap creates the tables on first open. There is no migration
// history: the layout mirrors the managed stores and only ever grows.
func (db *DB) bootstrap() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			uid          TEXT PRIMARY KEY,
			email        TEXT NOT NULL DEFAULT '',
			display_name TEXT NOT NULL DEFAULT '',
			photo_url    TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL DEFAULT ''
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// media_urls holds a JSON array; order matters and SQLite has no list type.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			media_urls  TEXT NOT NULL DEFAULT '[]',
			category    TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
	`)
	if err != nil {
		return fmt.Errorf("creating posts table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS decoration_tips (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			category    TEXT NOT NULL DEFAULT '',
			difficulty  TEXT NOT NULL DEFAULT '',
			media       TEXT NOT NULL DEFAULT '[]',
			author      TEXT NOT NULL DEFAULT '',
			tip         TEXT NOT NULL DEFAULT '',
			media_type  TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_decoration_tips_category ON decoration_tips(category);
	`)
	if err != nil {
		return fmt.Errorf("creating decoration_tips table: %w", err)
	}

	return nil
}

// encodeList stores a string slice as a JSON array. nil becomes "[]".
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	items := []string{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}
