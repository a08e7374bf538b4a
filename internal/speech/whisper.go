package speech

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

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/service"
)

const defaultModel = "whisper-1"

// Config holds the Whisper-compatible endpoint settings.
type Config struct {
	// BaseURL is the API root, e.g. https://api.openai.com/v1.
	BaseURL string
	// Model names the transcription model; defaults to whisper-1.
	Model string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
}

// Client calls a Whisper-compatible /audio/transcriptions endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// NewClient creates a transcription client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("speech base URL is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   model,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Transcribe uploads the audio as a multipart form and returns the
// transcription text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if _, err = io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("failed to read audio: %w", err)
	}
	if err = form.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("failed to build form: %w", err)
	}
	if err = form.Close(); err != nil {
		return "", fmt.Errorf("failed to finish form: %w", err)
	}

	payload := body.Bytes()
	contentType := form.FormDataContentType()

	var text string
	err = common.WithRetry(ctx, func() error {
		got, opErr := c.post(ctx, payload, contentType)
		if opErr != nil {
			return opErr
		}
		text = got
		return nil
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) post(ctx context.Context, payload []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", bytes.NewReader(payload))
	if err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err), Retryable: false}
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription API returned 429: %s: %w", string(respBody), common.ErrRateLimit)
	case resp.StatusCode >= http.StatusInternalServerError:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription API returned %d: %s", resp.StatusCode, string(respBody))
	case resp.StatusCode != http.StatusOK:
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &common.RetryableError{
			Err:       fmt.Errorf("transcription API returned %d: %s", resp.StatusCode, string(respBody)),
			Retryable: false,
		}
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &common.RetryableError{Err: fmt.Errorf("failed to decode transcription: %w", err), Retryable: false}
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		return "", &common.RetryableError{Err: fmt.Errorf("transcription returned no text"), Retryable: false}
	}
	return text, nil
}
