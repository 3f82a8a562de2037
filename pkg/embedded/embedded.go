// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the dashboard frontend (frontend/dist), served directly
// via HTTP. The frontend is a single self-contained page that drives the
// JSON API.
//
//go:embed frontend/dist
var Files embed.FS
