// pkg/download/download.go - streamed HTTP downloads into a local directory.

package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/windowsadmins/skcom/pkg/logging"
	"github.com/windowsadmins/skcom/pkg/utils"
)

const (
	// ChunkSize is the read buffer used while streaming a response body.
	ChunkSize = 8192
	Timeout   = 5 * time.Minute
)

// ErrHTTPStatus marks a non-success HTTP response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// StatusError carries the HTTP status of a failed download.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status code %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error { return ErrHTTPStatus }

// Downloader fetches a URL into a directory and returns the local file path.
type Downloader interface {
	DownloadFile(ctx context.Context, url, dir string) (string, error)
}

// Client is an HTTP Downloader.
type Client struct {
	HTTP *http.Client
}

// NewClient returns a Client with the given timeout (Timeout when zero).
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// DownloadFile streams url into dir, naming the file after the URL's final
// path segment. dir is created if needed. Any non-2xx status fails before a
// file is created.
func (c *Client) DownloadFile(ctx context.Context, url, dir string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("invalid parameters: url cannot be empty")
	}

	absDir, err := utils.CheckDir(dir)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(absDir, utils.FileNameFromURL(url))
	logging.Debug("Resolved download destination", "url", url, "destination", dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to prepare HTTP request: %w", err)
	}

	logging.Info("Starting download", "url", url, "destination", dest)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to open destination file: %w", err)
	}

	written, err := copyChunks(out, resp.Body)
	if err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write downloaded data: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to flush %s: %w", dest, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", dest, err)
	}

	logging.Info("Download completed successfully", "file", dest, "bytes", written)
	return dest, nil
}

// copyChunks copies src to dst in ChunkSize reads, never issuing a write for
// an empty read.
func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, ChunkSize)
	var total int64
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			total += int64(w)
			if err != nil {
				return total, err
			}
			if w != n {
				return total, io.ErrShortWrite
			}
		}
		if readErr == io.EOF {
			return total, nil
		}
		if readErr != nil {
			return total, readErr
		}
	}
}

// DownloadFile downloads with a default Client.
func DownloadFile(ctx context.Context, url, dir string) (string, error) {
	return NewClient(0).DownloadFile(ctx, url, dir)
}
