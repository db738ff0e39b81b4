// Package mysql embeds the schema migrations so the migrate binary can
// apply them without shipping loose SQL files.
package mysql

import "embed"

//go:embed *.sql
var FS embed.FS
