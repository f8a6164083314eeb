package migrations

import "embed"

// FS holds the schema migrations, one directory per storage backend.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
