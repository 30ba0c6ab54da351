// Package migrations embeds the user directory schema so the binary carries
// its own migrations instead of depending on a deploy-time file layout.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
