// Package calculus embeds the SQL migrations applied by the migrate command.
package calculus

import "embed"

// Migrations holds migrations/*.sql for goose.
//
//go:embed migrations/*.sql
var Migrations embed.FS
