// Package migrations embeds the schema migration files so the binary can
// bootstrap a fresh database without shipping loose SQL alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
