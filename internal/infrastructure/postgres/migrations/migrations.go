// Package migrations embebe los scripts SQL de goose.
package migrations

import "embed"

// FS contiene los archivos *.sql aplicados por goose (directorio raíz ".").
//
//go:embed *.sql
var FS embed.FS
