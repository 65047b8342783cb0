package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Tika extracts text by delegating to an Apache Tika server, which handles
// a far wider set of formats (DOCX, HWP, ODT, ...) than the Local
// extractor. It is safe for concurrent use.
type Tika struct {
	// serverURL is the Tika server base URL (e.g. "http://localhost:9998").
	serverURL string
	// client is the shared HTTP client with a sensible timeout.
	client *http.Client
}

// NewTika constructs a Tika extractor for the given server base URL.
func NewTika(serverURL string) *Tika {
	return &Tika{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract implements Extractor by PUTting the document to the Tika /tika
// endpoint and reading back the plain-text rendition.
func (t *Tika) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoTextExtracted
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.serverURL+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("extract: tika request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("Content-Type", mimeType)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("extract: tika call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("%w: tika cannot parse %s", ErrUnsupportedFormat, mimeType)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("extract: tika HTTP %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("extract: tika read response: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", ErrNoTextExtracted
	}
	return text, nil
}
