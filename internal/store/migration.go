package store

import (
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 2

// RunMigrations creates the schema on a fresh database and applies
// any pending migrations to an existing one.
func (s *Store) RunMigrations() error {
	// A database with no sync_records table has never been used;
	// build the current schema directly. The version ladder below
	// only upgrades existing databases.
	if !s.tableExists("sync_records") {
		return s.Initialize()
	}

	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}

	if version < 2 {
		if err := s.migrateToV2(); err != nil {
			return fmt.Errorf("migration to v2 failed: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, 1 if not set
func (s *Store) getSchemaVersion() (int, error) {
	// Check if version table exists
	var tableName string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='givc_schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		// Table doesn't exist, this is v1
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	// Get version
	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 1) FROM givc_schema_version").Scan(&version)
	if err != nil {
		return 1, nil
	}

	return version, nil
}

// migrateToV2 adds the detail column to sync_records
func (s *Store) migrateToV2() error {
	// Create version tracking table
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS givc_schema_version (
		version INTEGER PRIMARY KEY
	)`)
	if err != nil {
		return err
	}

	// SQLite doesn't have IF NOT EXISTS for ALTER TABLE, so we check first
	if !s.columnExists("sync_records", "detail") {
		if _, err := s.db.Exec(`ALTER TABLE sync_records ADD COLUMN detail TEXT`); err != nil {
			return err
		}
	}

	// Record migration version
	_, err = s.db.Exec("INSERT OR REPLACE INTO givc_schema_version (version) VALUES (?)", 2)
	return err
}

// columnExists checks if a column exists in a table
func (s *Store) columnExists(table, column string) bool {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&count)
	return err == nil && count > 0
}

// tableExists checks if a table exists
func (s *Store) tableExists(name string) bool {
	var found string
	err := s.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name = ?
	`, name).Scan(&found)
	return err == nil
}
