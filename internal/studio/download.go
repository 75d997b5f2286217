package studio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// lockDirName holds the per-file download locks inside the destination directory.
const lockDirName = ".subtitle-studio-locks"

// ProgressFunc is called with download progress (bytesDownloaded, totalBytes).
// totalBytes is -1 when the server does not send a Content-Length.
type ProgressFunc func(downloaded, total int64)

// Download fetches GET /download/{filename} into destDir and returns the
// saved path. The file is written to a temp name and renamed into place.
func (c *Client) Download(ctx context.Context, filename, destDir string, onProgress ProgressFunc) (string, error) {
	const op = "download"

	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(filename) == "" {
		return "", fmt.Errorf("%s: invalid filename %q", op, filename)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("%s: create download directory: %w", op, err)
	}

	destPath := filepath.Join(destDir, name)
	tmpPath := destPath + ".tmp"

	// Lock files are left in place: removing one after Unlock would let a
	// second process lock a fresh inode while a third still holds the old one.
	lockDir := filepath.Join(destDir, lockDirName)
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return "", fmt.Errorf("%s: create lock directory: %w", op, err)
	}
	lock := flock.New(filepath.Join(lockDir, name+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return "", fmt.Errorf("%s: lock destination: %w", op, err)
	}
	if !locked {
		return "", fmt.Errorf("%s: %s is already being downloaded", op, name)
	}
	defer lock.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(filename), nil)
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Op: op, Status: resp.StatusCode, Message: fmt.Sprintf("download of %s failed: HTTP %d", name, resp.StatusCode)}
	}

	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("%s: create temp file: %w", op, err)
	}
	defer func() {
		out.Close()
		os.Remove(tmpPath)
	}()

	reader := &progressReader{
		reader:     resp.Body,
		total:      resp.ContentLength,
		onProgress: onProgress,
	}

	written, err := io.Copy(out, reader)
	if err != nil {
		return "", fmt.Errorf("%s: write file: %w", op, err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("%s: close file: %w", op, err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", fmt.Errorf("%s: finalize file: %w", op, err)
	}

	c.logger.Infow("file saved", "file", destPath, "bytes", written, "request_id", requestID)
	return destPath, nil
}

// progressReader wraps an io.Reader to report progress.
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	onProgress ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	pr.downloaded += int64(n)
	if pr.onProgress != nil && n > 0 {
		pr.onProgress(pr.downloaded, pr.total)
	}
	return n, err
}
