package handler

import (
	"fmt"
	"net/http"
)

// Manifest serves the PWA manifest.
func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/manifest+json")
	fmt.Fprint(w, `{
  "name": "Bart Now",
  "short_name": "Bart Now",
  "description": "Find a BART station and pick your trip on the map",
  "start_url": "/",
  "scope": "/",
  "display": "standalone",
  "orientation": "any",
  "background_color": "#ffffff",
  "theme_color": "#0099d8",
  "categories": ["navigation", "transportation"]
}`)
}
