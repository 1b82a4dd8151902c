package toolchain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Downloader fetches a URL to a local file and returns its path.
type Downloader interface {
	Download(ctx context.Context, url, name string) (string, error)
}

// HTTPDownloader downloads over HTTP into a cache directory. A file already
// in the cache is reused.
type HTTPDownloader struct {
	CacheDir string
	Client   *http.Client
}

// NewHTTPDownloader creates a downloader. An empty cacheDir selects
// $XDG_CACHE_HOME/crossfreight/downloads.
func NewHTTPDownloader(cacheDir string) *HTTPDownloader {
	if cacheDir == "" {
		cacheDir = filepath.Join(xdg.CacheHome, "crossfreight", "downloads")
	}
	return &HTTPDownloader{CacheDir: cacheDir, Client: http.DefaultClient}
}

// Download fetches url into the cache under name (or the URL's base name).
func (d *HTTPDownloader) Download(ctx context.Context, url, name string) (string, error) {
	if name == "" {
		name = path.Base(url)
	}
	dest := filepath.Join(d.CacheDir, name)
	if isFile(dest) {
		return dest, nil
	}

	if err := os.MkdirAll(d.CacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s: %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	// Write to a temp file first so an interrupted download never poisons
	// the cache.
	tmp, err := os.CreateTemp(d.CacheDir, name+".part-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}
	return dest, nil
}
