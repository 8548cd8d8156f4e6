// Package migrations embeds the schema so the server binary can migrate
// without shipping SQL files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
