package routinetimer

import "embed"

// WebFS holds the HTML templates and static assets served by the timer UI.
//
//go:embed web/templates web/static
var WebFS embed.FS
