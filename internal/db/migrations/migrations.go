// Package migrations embeds the goose SQL migrations so the server binary
// does not depend on its working directory.
package migrations

import "embed"

// FS holds every *.sql migration in this directory.
//
//go:embed *.sql
var FS embed.FS
