// Package llm calls a vision model over the OpenAI-compatible
// chat-completions API to read the certificate serial number off a rendered
// page image. The provider is opaque to callers: any endpoint speaking this
// wire format works (LM Studio, vLLM, OpenAI itself).
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the recognition client.
type Config struct {
	URL         string        // full chat-completions endpoint URL
	Model       string        // e.g. "qwen2.5-vl-72b-instruct"
	Temperature float32       // 0 keeps the output deterministic
	Timeout     time.Duration // per-call HTTP timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = "http://192.168.1.69:1234/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen2.5-vl-72b-instruct"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Recognize sends a rendered page image (PNG bytes) to the vision model and
// returns the raw recognized text. The caller normalizes it and maps errors
// to the ERROR sentinel; this method never invents a sentinel itself.
func (c *Client) Recognize(ctx context.Context, imagePNG []byte) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Debug("llm.recognize.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"image_bytes", len(imagePNG),
	)

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG)
	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{
				"role":    "system",
				"content": []map[string]any{{"type": "text", "text": systemInstruction}},
			},
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": userInstruction},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
		"temperature": c.cfg.Temperature,
	}

	raw, err := c.post(ctx, c.cfg.URL, body)
	if err != nil {
		c.logger.Error("llm.recognize.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	if err := validateJSONAgainstSchema(responseEnvelopeSchema(), raw); err != nil {
		c.logger.Error("llm.recognize.bad_envelope",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("unexpected response shape: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text := strings.TrimSpace(cc.Choices[0].Message.Content)

	c.logger.Info("llm.recognize.ok",
		"req_id", rid,
		"text", text,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("llm response body close error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("llm status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return raw, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
