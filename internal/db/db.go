package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/lagna/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 2

// FileName is the database file inside the base directory.
const FileName = "lagna.db"

// Init initializes the SQLite database at baseDir/lagna.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.lagna.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// Pragmas in the DSN apply to every pooled connection.
	dbPath := filepath.Join(baseDir, FileName)
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	ctx := context.Background()
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: charts table
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS charts (
		  id              TEXT PRIMARY KEY,
		  owner_raw       TEXT NOT NULL,
		  owner_norm      TEXT NOT NULL,
		  name_raw        TEXT,
		  name_norm       TEXT,
		  label           TEXT,
		  birth_json      TEXT NOT NULL,
		  ayanamsa        TEXT NOT NULL,
		  node_model      TEXT NOT NULL,
		  chart_json      TEXT NOT NULL,
		  created_at      INTEGER NOT NULL,
		  updated_at      INTEGER NOT NULL,
		  deleted_at      INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_charts_owner_updated
		ON charts(owner_norm, updated_at DESC)
		WHERE deleted_at IS NULL;

		CREATE UNIQUE INDEX IF NOT EXISTS idx_charts_owner_name_norm
		ON charts(owner_norm, name_norm)
		WHERE name_norm IS NOT NULL AND deleted_at IS NULL;
		`
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Migration 1 -> 2: headline placement columns for list views
	if version < 2 {
		schema := `
		ALTER TABLE charts ADD COLUMN lagna INTEGER NOT NULL DEFAULT 0;
		ALTER TABLE charts ADD COLUMN moon_sign INTEGER NOT NULL DEFAULT 0;
		ALTER TABLE charts ADD COLUMN moon_nakshatra INTEGER NOT NULL DEFAULT 0;
		ALTER TABLE charts ADD COLUMN degraded INTEGER NOT NULL DEFAULT 0;

		CREATE INDEX IF NOT EXISTS idx_charts_moon_nakshatra
		ON charts(moon_nakshatra)
		WHERE deleted_at IS NULL;
		`
		if _, err := db.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		if err := SetUserVersion(db, 2); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
