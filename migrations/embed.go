// Package migrations embeds the SQL migration files into the binary.
//
// Importing this package (for side effects) wires the embedded filesystem
// into the database package's migration runner:
//
//	import _ "github.com/asydorov/sygnal/migrations"
package migrations

import (
	"embed"

	"github.com/asydorov/sygnal/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
