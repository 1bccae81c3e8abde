package bart

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bartnow/internal/storage"
)

// Refresher replaces the station asset on disk with the API's current list.
type Refresher struct {
	client *Client
	db     *storage.DB
	path   string
	logger *slog.Logger
}

// NewRefresher creates a Refresher writing to path.
func NewRefresher(client *Client, db *storage.DB, path string, logger *slog.Logger) *Refresher {
	return &Refresher{client: client, db: db, path: path, logger: logger}
}

// Refresh downloads the station list if it changed and atomically replaces
// the asset. It reports whether the file was written. With force set the
// stored validators are ignored.
func (r *Refresher) Refresh(ctx context.Context, force bool) (bool, error) {
	var lastModified, etag string
	if !force {
		var err error
		if lastModified, err = r.db.GetMetadata(ctx, "last_modified"); err != nil {
			r.logger.Warn("reading last_modified failed, downloading unconditionally", "error", err)
		}
		if etag, err = r.db.GetMetadata(ctx, "etag"); err != nil {
			r.logger.Warn("reading etag failed, downloading unconditionally", "error", err)
		}
	}
	// A missing asset cannot be "not modified".
	if _, err := os.Stat(r.path); err != nil {
		lastModified, etag = "", ""
	}

	res, err := r.client.Stations(ctx, lastModified, etag)
	if err != nil {
		return false, err
	}
	if res.NotModified {
		return false, nil
	}

	if err := writeAtomic(r.path, res.Body); err != nil {
		return false, err
	}

	meta := map[string]string{
		"last_modified": res.LastModified,
		"etag":          res.ETag,
		"refreshed_at":  time.Now().UTC().Format(time.RFC3339),
		"station_count": strconv.Itoa(len(res.Stations)),
	}
	for k, v := range meta {
		if err := r.db.SetMetadata(ctx, k, v); err != nil {
			return true, fmt.Errorf("set %s: %w", k, err)
		}
	}

	r.logger.Info("station asset refreshed", "path", r.path, "stations", len(res.Stations))
	return true, nil
}

// writeAtomic writes to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "stations-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}
