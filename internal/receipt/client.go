package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Config holds the OCR endpoint settings.
type Config struct {
	// URL is the full endpoint accepting a multipart receipt upload.
	URL string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
}

// Client calls an external receipt OCR endpoint. The endpoint contract is a
// multipart "file" upload answered with JSON {merchant, total, raw_text},
// total in whole soums.
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

// NewClient creates an OCR client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("receipt OCR URL is required")
	}
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Extract uploads the image and returns what the endpoint recovered.
func (c *Client) Extract(ctx context.Context, image io.Reader, filename string) (Extraction, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to build form: %w", err)
	}
	if _, err = io.Copy(part, image); err != nil {
		return Extraction{}, fmt.Errorf("failed to read image: %w", err)
	}
	if err = form.Close(); err != nil {
		return Extraction{}, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return Extraction{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("OCR request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Extraction{}, fmt.Errorf("OCR API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var out struct {
		Merchant string `json:"merchant"`
		RawText  string `json:"raw_text"`
		Total    int64  `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Extraction{}, fmt.Errorf("failed to decode OCR response: %w", err)
	}

	if out.Total <= 0 {
		return Extraction{}, fmt.Errorf("OCR found no total on the receipt")
	}

	return Extraction{
		Merchant: strings.TrimSpace(out.Merchant),
		Total:    out.Total,
		RawText:  out.RawText,
	}, nil
}
