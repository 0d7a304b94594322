package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedProject inserts a minimal project row for foreign key targets
func seedProject(t *testing.T, db *DB, id, userID string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO projects (id, user_id, name, domain, process_template_id) VALUES (?, ?, 'Test', 'philosophy', 'tmpl1')`,
		id, userID)
	require.NoError(t, err)
}

// seedSession inserts a minimal session row for foreign key targets
func seedSession(t *testing.T, db *DB, id, projectID string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO sessions (id, project_id, selected_model_ids, iteration, status) VALUES (?, ?, '["m1"]', 1, 'created')`,
		id, projectID)
	require.NoError(t, err)
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"projects",
		"sessions",
		"stages",
		"input_rules",
		"resources",
		"contributions",
		"feedback",
		"generation_jobs",
		"model_configs",
		"events",
		"api_keys",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestMigrationsIdempotent verifies that re-running migrations on an
// existing database is safe
func TestMigrationsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}
