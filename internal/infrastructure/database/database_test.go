package database

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/config"
)

// openTestDB opens a database in a temp dir and registers cleanup.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return db
}

// useMigrations swaps in a test migrations FS for the duration of the
// test.
func useMigrations(t *testing.T, fsys fstest.MapFS) {
	t.Helper()

	prevFS, prevDir := MigrationsFS, MigrationsDir
	MigrationsFS, MigrationsDir = fsys, "."
	t.Cleanup(func() {
		MigrationsFS, MigrationsDir = prevFS, prevDir
	})
}

// =============================================================================
// Open Tests
// =============================================================================

func TestOpen(t *testing.T) {
	db := openTestDB(t)

	if db.Path() == "" {
		t.Error("Path() = empty")
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b", "test.db")

	db, err := Open(config.DatabaseConfig{Path: nested, BusyTimeout: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
}

func TestCloseNil(t *testing.T) {
	db := &DB{}
	if err := db.Close(); err != nil {
		t.Errorf("Close() on zero DB error = %v, want nil", err)
	}
}

// =============================================================================
// Migration Tests
// =============================================================================

func TestMigrate(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"0001_create_things.up.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY, name TEXT NOT NULL)"),
		},
		"0002_add_index.up.sql": &fstest.MapFile{
			Data: []byte("CREATE INDEX idx_things_name ON things(name)"),
		},
		"notes.txt": &fstest.MapFile{Data: []byte("ignored")},
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Both migrations recorded.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	if count != 2 {
		t.Errorf("applied migrations = %d, want 2", count)
	}

	// The migrated schema is usable.
	if _, err := db.ExecContext(ctx, "INSERT INTO things (name) VALUES ('x')"); err != nil {
		t.Errorf("inserting into migrated table: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"0001_create_things.up.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY)"),
		},
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate() error = %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateBadSQLRollsBack(t *testing.T) {
	useMigrations(t, fstest.MapFS{
		"0001_broken.up.sql": &fstest.MapFile{
			Data: []byte("CREATE TABL nope"),
		},
	})

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err == nil {
		t.Fatal("Migrate() error = nil, want SQL error")
	}

	// The failed migration must not be recorded.
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	if count != 0 {
		t.Errorf("recorded migrations = %d after failure, want 0", count)
	}
}

func TestMigrateNoFS(t *testing.T) {
	prevFS := MigrationsFS
	MigrationsFS = nil
	t.Cleanup(func() { MigrationsFS = prevFS })

	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err == nil {
		t.Fatal("Migrate() error = nil without registered FS, want error")
	}
}

func TestSplitMigrationName(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{"0001_create_readings.up.sql", "0001", "create_readings", true},
		{"0010_add_column.up.sql", "0010", "add_column", true},
		{"noversion.up.sql", "", "", false},
		{"_missing.up.sql", "", "", false},
		{"0002_.up.sql", "", "", false},
	}

	for _, tt := range tests {
		version, name, ok := splitMigrationName(tt.filename)
		if version != tt.wantVersion || name != tt.wantName || ok != tt.wantOK {
			t.Errorf("splitMigrationName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.filename, version, name, ok, tt.wantVersion, tt.wantName, tt.wantOK)
		}
	}
}
