// Package migrations embeds the SQL schema of the postgres storage backend.
package migrations

import "embed"

// FS holds goose migrations.
//
//go:embed *.sql
var FS embed.FS
