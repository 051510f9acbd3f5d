package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ReputationMonitor/internal/domain"
	"ReputationMonitor/internal/ports"
)

// Client talks to an external inference service hosting a pretrained
// binary sentiment model. The service's native label space is mapped
// onto {Positive, Negative}: any label starting with "POS" is Positive.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Name identifies the strategy in logs and digests.
func (c *Client) Name() string {
	return "model"
}

// Ping is the capability check run once before a batch is committed to
// this strategy.
func (c *Client) Ping(ctx context.Context) error {
	if c.endpoint == "" {
		return fmt.Errorf("inference endpoint is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping inference service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %s", resp.Status)
	}

	return nil
}

// Classify sends the whole batch in one request; the model expects batch
// input, so this is never invoked per record. The raw probability passes
// through as confidence.
func (c *Client) Classify(ctx context.Context, texts []string) ([]domain.Prediction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := map[string]any{"texts": texts}

	var raw []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}

	if err := c.post(ctx, "/sentiment", payload, &raw); err != nil {
		return nil, err
	}

	if len(raw) != len(texts) {
		return nil, fmt.Errorf("inference returned %d predictions for %d texts", len(raw), len(texts))
	}

	predictions := make([]domain.Prediction, len(raw))
	for i, p := range raw {
		label := domain.SentimentNegative
		if strings.HasPrefix(strings.ToUpper(p.Label), "POS") {
			label = domain.SentimentPositive
		}
		predictions[i] = domain.Prediction{Label: label, Confidence: clamp01(p.Score)}
	}

	return predictions, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
