package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls an OpenAI-compatible embeddings endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed implements Embedder against the remote endpoint.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	if c.BaseURL == "" || c.Model == "" {
		return nil, fmt.Errorf("embed: base URL and model required")
	}

	reqBody, err := json.Marshal(embedRequest{Model: c.Model, Input: []string{text}})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("embed error: %s", payload.Error.Message)
	}
	if len(payload.Data) == 0 {
		return nil, fmt.Errorf("embed: empty response")
	}

	return payload.Data[0].Embedding, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
