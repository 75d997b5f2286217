package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cyber/subtitle-studio/internal/transcript"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client talks to the transcription backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *zap.SugaredLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL must be http or https, got %q", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// DownloadURL returns the URL of a server-side file.
func (c *Client) DownloadURL(filename string) string {
	return c.endpoint("/download/" + url.PathEscape(filename))
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.baseURL.String(), "/") + path
}

// Transcribe uploads a video and waits for its transcript. The file is
// streamed into the multipart body rather than buffered.
func (c *Client) Transcribe(ctx context.Context, req TranscribeRequest) (*TranscriptionResult, error) {
	const op = "transcribe"

	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: open video: %w", op, err)
	}

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.Path)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		defer f.Close()
		pw.CloseWithError(writeUpload(mw, f, filename, req.Language))
	}()
	// Unblocks the writer if the request ends before the body is consumed.
	defer pr.Close()

	var result TranscriptionResult
	status, err := c.do(ctx, op, http.MethodPost, "/transcribe", mw.FormDataContentType(), pr, &result)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &APIError{Op: op, Status: status, Message: result.Error}
	}
	return &result, nil
}

// writeUpload writes the form fields the backend expects: the "video"
// file part and, unless auto-detecting, the "language" hint.
func writeUpload(mw *multipart.Writer, video io.Reader, filename, language string) error {
	fw, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, video); err != nil {
		return fmt.Errorf("read video: %w", err)
	}
	if !transcript.IsAuto(language) {
		if err := mw.WriteField("language", strings.TrimSpace(language)); err != nil {
			return fmt.Errorf("write language: %w", err)
		}
	}
	return mw.Close()
}

// DownloadSRT asks the backend to write an SRT file for the segments.
func (c *Client) DownloadSRT(ctx context.Context, req ExportRequest) (*SRTResult, error) {
	const op = "download-srt"

	var result SRTResult
	status, err := c.postJSON(ctx, op, "/download-srt", req, &result)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &APIError{Op: op, Status: status, Message: result.Error}
	}
	return &result, nil
}

// GenerateSubtitledVideo asks the backend to burn the segments into the video.
func (c *Client) GenerateSubtitledVideo(ctx context.Context, req ExportRequest) (*VideoResult, error) {
	const op = "generate-subtitled-video"

	var result VideoResult
	status, err := c.postJSON(ctx, op, "/generate-subtitled-video", req, &result)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, &APIError{Op: op, Status: status, Message: result.Error}
	}
	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, op, path string, payload, out any) (int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("%s: encode request: %w", op, err)
	}
	return c.do(ctx, op, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

// do sends a request and decodes the JSON body into out regardless of the
// status code, since the backend reports failures as {"error": ...} with 4xx/5xx.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return 0, fmt.Errorf("%s: build request: %w", op, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	c.logger.Debugw("request started", "op", op, "method", method, "path", path, "request_id", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warnw("request failed", "op", op, "request_id", requestID, "error", err)
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Infow("request finished",
		"op", op,
		"status", resp.StatusCode,
		"request_id", requestID,
		"elapsed", time.Since(start),
	)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s: read response: %w", op, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		snippet := strings.TrimSpace(string(raw))
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return resp.StatusCode, fmt.Errorf("%s: HTTP %d: unexpected response %q", op, resp.StatusCode, snippet)
	}
	return resp.StatusCode, nil
}
