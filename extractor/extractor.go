// Package extractor provides the client for the external named-entity
// model. The model is opaque: it receives raw text and returns labeled
// spans. Any inference service that speaks the token-classification wire
// format can be plugged in through the EXTRACTOR_URL setting.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DevarneniSindhuja/medical/formulary/entities"
	"github.com/DevarneniSindhuja/medical/interfaces"
)

// Compile-time check to ensure Client implements EntityExtractor
var _ interfaces.EntityExtractor = (*Client)(nil)

// DefaultModelURL points at the hosted NER model used when no extractor
// URL is configured.
const DefaultModelURL = "https://api-inference.huggingface.co/models/dslim/bert-base-NER"

// Client calls a hosted token-classification model over HTTP.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewClient creates an extractor client. An empty url selects the default
// hosted model; token may be empty for anonymous access.
func NewClient(url string, token string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultModelURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type extractRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		AggregationStrategy string `json:"aggregation_strategy"`
	} `json:"parameters"`
}

// Extract implements the EntityExtractor interface. It sends the text to
// the inference endpoint and returns every span the model emits.
func (c *Client) Extract(ctx context.Context, text string) ([]entities.Span, error) {
	payload := extractRequest{Inputs: text}
	payload.Parameters.AggregationStrategy = "simple"

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entity extraction request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entity extraction returned status %d: %s", resp.StatusCode, truncate(respBody, 200))
	}

	return decodeSpans(respBody)
}

// decodeSpans handles both response shapes the inference endpoints produce:
// a flat span list for a single input and a nested list per input batch.
func decodeSpans(body []byte) ([]entities.Span, error) {
	var flat []entities.Span
	if err := json.Unmarshal(body, &flat); err == nil {
		return flat, nil
	}

	var nested [][]entities.Span
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) == 0 {
			return []entities.Span{}, nil
		}
		return nested[0], nil
	}

	return nil, fmt.Errorf("unexpected extraction response shape: %s", truncate(body, 200))
}

func truncate(b []byte, max int) string {
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
