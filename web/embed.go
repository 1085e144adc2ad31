// Package web provides embedded static assets (stylesheets) for the public
// site and the admin console, served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed all:static
var StaticFS embed.FS
