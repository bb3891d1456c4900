// Package item embeds the goose migrations for the item registry schema.
package item

import "embed"

// FS holds every migration file of the item bounded context.
//
//go:embed *.sql
var FS embed.FS
