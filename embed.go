// Package calistheniq embeds the built frontend so the server ships as a
// single binary.
package calistheniq

import "embed"

//go:embed web/dist
var WebFS embed.FS
