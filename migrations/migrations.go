// Package migrations embeds the versioned SQL schema files.
package migrations

import "embed"

// FS holds one directory per backend; files are named NNN_name.sql.
//
//go:embed sqlite/*.sql
var FS embed.FS
