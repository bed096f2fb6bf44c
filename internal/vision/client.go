// internal/vision/client.go
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"housing-intake/internal/common/config"
	stderrors "housing-intake/internal/common/errors"
	"housing-intake/internal/common/logger"
	"housing-intake/internal/common/metrics"
)

// Client calls an OpenAI-compatible chat/completions endpoint with one image
// attachment per request.
type Client struct {
	cfg  config.ModelConfig
	http *http.Client
	log  logger.Logger
}

func NewClient(cfg config.ModelConfig, log logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: log.WithFields(map[string]interface{}{"component": "vision"}),
	}
}

// ModelID returns the configured model identifier, recorded on extraction versions.
func (c *Client) ModelID() string {
	return c.cfg.Model
}

func (c *Client) Call(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	start := time.Now()

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	body := map[string]interface{}{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]interface{}{"type": "json_object"},
		"messages": []map[string]interface{}{
			{"role": "system", "content": "You are a document analysis assistant for a housing application service. Return ONLY a single JSON object."},
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
					{"type": "image_url", "image_url": map[string]interface{}{"url": dataURL}},
				},
			},
		},
	}

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	metrics.ModelCallDuration.WithLabelValues("call").Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.Error("model call failed", map[string]interface{}{
			"error":     err.Error(),
			"elapsedMs": time.Since(start).Milliseconds(),
		})
		if errors.Is(err, context.DeadlineExceeded) {
			return "", stderrors.NewModelTimeoutError()
		}
		return "", stderrors.NewModelCallFailedError(err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", stderrors.NewModelBadResponseError(fmt.Sprintf("decode response: %v", err))
	}
	if len(cc.Choices) == 0 {
		return "", stderrors.NewModelBadResponseError("no choices in model response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.log.Debug("model call completed", map[string]interface{}{
		"contentBytes": len(content),
		"elapsedMs":    time.Since(start).Milliseconds(),
	})
	return content, nil
}

func (c *Client) post(ctx context.Context, url string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model endpoint returned %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}
	return raw, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
