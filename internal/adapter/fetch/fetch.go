// Package fetch downloads the Storm Events bulk archive over HTTP with a
// local file cache, so repeated report runs never re-download the ~50 MB file.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Fetcher retrieves remote dataset files into a cache directory.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// New creates a Fetcher with the given per-request timeout.
func New(timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Fetch returns a local path for url, downloading into cacheDir only when the
// cached copy does not exist. Downloads go through a temp file and a rename,
// so a partial download never poisons the cache.
func (f *Fetcher) Fetch(ctx context.Context, url, cacheDir string) (string, error) {
	cachePath := filepath.Join(cacheDir, filepath.Base(url))
	if _, err := os.Stat(cachePath); err == nil {
		f.logger.Info("using cached archive", "path", cachePath)
		return cachePath, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("create cache dir: %w", err)
	}

	f.logger.Info("downloading archive", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download archive: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(cacheDir, filepath.Base(url)+".partial-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write archive: %w", err)
	}

	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		return "", fmt.Errorf("finalize archive: %w", err)
	}

	f.logger.Info("archive downloaded", "path", cachePath, "bytes", n)
	return cachePath, nil
}
