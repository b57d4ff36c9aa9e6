// Package fraudrisk holds assets shared by the binaries, such as the embedded
// database migrations.
package fraudrisk

import "embed"

// Migrations contains the goose migrations of every SQL backend, under
// migrations/postgres and migrations/sqlite.
//
//go:embed migrations
var Migrations embed.FS

// Migration directories inside Migrations.
const (
	PostgresMigrations = "migrations/postgres"
	SQLiteMigrations   = "migrations/sqlite"
)
