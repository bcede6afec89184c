package database

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// MigrationsFS and MigrationsDir are set by the migrations package's
// init(), which embeds the SQL files into the binary. Registration via
// package variable keeps this package free of an import cycle with the
// embed location. Tests may substitute any fs.FS.
var (
	MigrationsFS  fs.FS
	MigrationsDir = "."
)

// migrationSuffix is the filename suffix of an applyable migration.
// Files are named NNNN_description.up.sql and applied in lexical order.
const migrationSuffix = ".up.sql"

// Migration is a single schema migration loaded from the embedded FS.
type Migration struct {
	// Version is the leading numeric part of the filename (e.g. "0001").
	Version string

	// Name is the descriptive part of the filename.
	Name string

	// SQL is the migration body.
	SQL string
}

// Migrate applies all pending migrations in order, each inside its own
// transaction. Applied versions are tracked in the schema_migrations
// table, so running Migrate repeatedly is safe.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: If loading, tracking, or applying a migration fails
func (db *DB) Migrate(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return err
	}

	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := db.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := db.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("applying migration %s_%s: %w", m.Version, m.Name, err)
		}
	}

	return nil
}

// createMigrationsTable ensures the tracking table exists.
func (db *DB) createMigrationsTable(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}
	return nil
}

// appliedVersions returns the set of already-applied migration versions.
func (db *DB) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("querying applied migrations: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// applyMigration runs one migration and records it, atomically.
func (db *DB) applyMigration(ctx context.Context, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.Version, m.Name,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// loadMigrations reads and orders the embedded *.up.sql files.
func loadMigrations() ([]Migration, error) {
	if MigrationsFS == nil {
		return nil, fmt.Errorf("no migrations registered (blank-import the migrations package)")
	}

	entries, err := fs.ReadDir(MigrationsFS, MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, migrationSuffix) {
			continue
		}

		version, descriptive, ok := splitMigrationName(name)
		if !ok {
			return nil, fmt.Errorf("malformed migration filename %q", name)
		}

		body, err := fs.ReadFile(MigrationsFS, path.Join(MigrationsDir, name))
		if err != nil {
			return nil, fmt.Errorf("reading migration %q: %w", name, err)
		}

		migrations = append(migrations, Migration{
			Version: version,
			Name:    descriptive,
			SQL:     string(body),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// splitMigrationName parses "0001_create_readings.up.sql" into
// ("0001", "create_readings").
func splitMigrationName(filename string) (version, name string, ok bool) {
	base := strings.TrimSuffix(filename, migrationSuffix)
	version, name, found := strings.Cut(base, "_")
	if !found || version == "" || name == "" {
		return "", "", false
	}
	return version, name, true
}
