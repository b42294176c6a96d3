// Package migrations embeds the SQL schema migrations so the migrate
// binary does not depend on the working directory.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file
//
//go:embed *.sql
var FS embed.FS
