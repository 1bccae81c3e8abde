package web

import "embed"

// StaticFiles embeds the map script and stylesheet into the binary.
//
//go:embed static/*
var StaticFiles embed.FS
