// internal/domain/upload/http_uploader.go
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
)

// HTTPUploader posts files to the remote upload endpoint as multipart
// form data, reporting progress from the bytes read off the source.
type HTTPUploader struct {
	uploadURL  string
	httpClient *http.Client
}

// NewHTTPUploader returns a remote uploader, or nil when no upload
// endpoint is configured so the service falls back to local references.
func NewHTTPUploader(cfg *config.Config) *HTTPUploader {
	if cfg.Gateway.UploadURL == "" {
		return nil
	}
	return &HTTPUploader{
		uploadURL: cfg.Gateway.UploadURL,
		httpClient: &http.Client{
			Timeout: cfg.Gateway.UploadTimeout,
		},
	}
}

// Upload streams the file to the upload endpoint and returns the remote URL
func (u *HTTPUploader) Upload(ctx context.Context, name string, size int64, r io.Reader, progress func(int)) (string, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		counted := &countingReader{r: r, total: size, report: progress}
		if _, err := io.Copy(part, counted); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != "" {
			return "", fmt.Errorf("upload rejected: %s", parsed.Error)
		}
		return "", fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}

	progress(100)
	return result.URL, nil
}

// countingReader reports transfer progress as a percentage of total bytes
type countingReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	lastAt time.Time
	report func(int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.total > 0 {
		pct := int(c.read * 100 / c.total)
		if pct > 99 {
			// The final 100 is reported after the server accepts the file
			pct = 99
		}
		if pct != c.last && time.Since(c.lastAt) > 50*time.Millisecond {
			c.last = pct
			c.lastAt = time.Now()
			c.report(pct)
		}
	}
	return n, err
}
