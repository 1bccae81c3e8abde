// Package data holds the station list bundled into the binary.
package data

import "embed"

// StationsFile is the name of the bundled station asset inside FS.
const StationsFile = "stations.json"

// FS embeds the bundled station asset.
//
//go:embed stations.json
var FS embed.FS
