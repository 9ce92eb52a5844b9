// Package migrations embeds the goose schema migrations so both the server
// binary and in-memory test databases run the same DDL.
package migrations

import (
	"embed"
)

//go:embed *.sql
var embedMigrations embed.FS

func GetMigrations() embed.FS {
	return embedMigrations
}
