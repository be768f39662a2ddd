package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// apiClient talks to a mailtriage server.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ClassifyRequest matches internal/http ClassifyRequest.
type ClassifyRequest struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject"`
	EmailText string `json:"email_text"`
	Date      string `json:"date"`
}

// ClassifyResponse matches the /classify-email response.
type ClassifyResponse struct {
	ID            int64   `json:"id"`
	Subject       string  `json:"subject"`
	EmailText     string  `json:"email_text"`
	Date          string  `json:"date"`
	Clasificacion string  `json:"clasificacion"`
	Importancia   string  `json:"importancia"`
	Mensaje       *string `json:"mensaje"`
}

// HealthResponse matches internal/http HealthResponse.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (c *apiClient) classify(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var out ClassifyResponse
	if err := c.do(ctx, http.MethodPost, "/classify-email", bytes.NewReader(body), func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&out)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) downloadTestimonials(ctx context.Context, w io.Writer) (int64, error) {
	var n int64
	err := c.do(ctx, http.MethodGet, "/download-testimonios", nil, func(r io.Reader) error {
		var copyErr error
		n, copyErr = io.Copy(w, r)
		return copyErr
	})
	return n, err
}

func (c *apiClient) health(ctx context.Context) (*HealthResponse, error) {
	var out HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, func(r io.Reader) error {
		return json.NewDecoder(r).Decode(&out)
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body io.Reader, decode func(io.Reader) error) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("server returned status %d (failed to read response body: %w)", resp.StatusCode, readErr)
		}
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Detail != "" {
			return fmt.Errorf("server returned status %d: %s", resp.StatusCode, e.Detail)
		}
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(raw))
	}

	if err := decode(resp.Body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
