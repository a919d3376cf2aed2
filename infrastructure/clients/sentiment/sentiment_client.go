package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"sentitube/domain/model"
	"sentitube/domain/repository"
)

// Client talks to the external sentiment inference service over HTTP.
// The model architecture behind the endpoint is opaque to this service.
type Client struct {
	host       string
	httpClient *http.Client
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewClient creates a classifier client for the given host, e.g.
// "http://localhost:8001".
func NewClient(host string, timeout time.Duration) repository.IClassifier {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Classify sends sanitized text to the inference service and returns the
// predicted label with its confidence score.
func (c *Client) Classify(ctx context.Context, text string) (model.SentimentResult, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return model.SentimentResult{}, fmt.Errorf("failed to encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/classify", bytes.NewReader(body))
	if err != nil {
		return model.SentimentResult{}, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.SentimentResult{}, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.SentimentResult{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.SentimentResult{}, fmt.Errorf("failed to decode classifier response: %w", err)
	}

	label, err := normalizeLabel(out.Label)
	if err != nil {
		return model.SentimentResult{}, err
	}
	return model.SentimentResult{Label: label, Score: out.Score}, nil
}

// normalizeLabel maps the raw model output to the canonical label set.
// Transformer checkpoints commonly emit LABEL_<n> instead of names.
func normalizeLabel(raw string) (model.Sentiment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "label_2", "pos":
		return model.SentimentPositive, nil
	case "neutral", "label_1", "neu":
		return model.SentimentNeutral, nil
	case "negative", "label_0", "neg":
		return model.SentimentNegative, nil
	default:
		return "", fmt.Errorf("classifier returned unknown label %q", raw)
	}
}
