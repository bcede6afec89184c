// Package migrations embeds SQL migration files into the binary, so
// the bridge can migrate its archive database without the SQL files
// being present on the filesystem.
package migrations

import (
	"embed"

	"github.com/nerrad567/gray-logic-sense/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// Register embedded migrations with the database package.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
