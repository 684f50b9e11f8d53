package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// InitSnapshotSchema создает таблицы снимка, если их нет
func InitSnapshotSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			position INTEGER NOT NULL,
			id INTEGER NOT NULL,
			company TEXT,
			address TEXT,
			type TEXT,
			phone TEXT,
			fax TEXT,
			web TEXT,
			approve_date TEXT,
			PRIMARY KEY (id, company)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_companies_position ON companies(position)`,
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			upstream_total INTEGER NOT NULL,
			pages INTEGER NOT NULL,
			fetched INTEGER NOT NULL,
			rejected INTEGER NOT NULL,
			duplicates INTEGER NOT NULL,
			kept INTEGER NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply snapshot schema: %w", err)
		}
	}
	return nil
}

// CreateSnapshotDatabase создает или открывает БД снимка
func CreateSnapshotDatabase(path string) (*sql.DB, error) {
	// Создаем директорию, если её нет
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	// SQLite пишет в один поток
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping snapshot database: %w", err)
	}

	if err := InitSnapshotSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize snapshot schema: %w", err)
	}

	return db, nil
}
