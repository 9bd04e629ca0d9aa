// Package migrations holds the SQL schema migrations, embedded so the
// server and the migrate command run without the source tree.
package migrations

import "embed"

// FS contains every *.sql migration of this directory
//
//go:embed *.sql
var FS embed.FS
