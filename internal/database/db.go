package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Config holds database configuration.
type Config struct {
	DatabasePath string
}

// DB wraps the sqlite connection. It is created once in main and injected
// into the repositories; the underlying pool is shared process-wide.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (or creates) the sqlite database at the configured path and
// runs any pending migrations.
func NewDB(cfg Config) (*DB, error) {
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	// WAL keeps readers unblocked during the refresh write; busy_timeout
	// covers the brief overlap when a request and the scheduler both touch
	// the cache record.
	dsn := cfg.DatabasePath + "?_journal_mode=WAL&_busy_timeout=5000"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Printf("[database] opened %s", cfg.DatabasePath)
	return &DB{conn: conn, path: cfg.DatabasePath}, nil
}

func migrate(conn *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Connection returns the underlying *sql.DB for repositories.
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
