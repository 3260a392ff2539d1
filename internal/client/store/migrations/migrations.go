// Package migrations embeds the SQL migrations for the local offline
// database. The store package is the only schema owner; repositories never
// declare tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
