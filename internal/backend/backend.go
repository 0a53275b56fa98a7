package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/scoring"
	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/models"
	"github.com/google/uuid"
)

// ErrUpstream is returned when the backend service answers with an error status.
var ErrUpstream = errors.New("backend service error")

// Client calls the marketing, voice and scoring backend service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient creates a backend client with the given request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// post sends body as JSON and decodes a 2xx JSON answer into out.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("backend", "error").Inc()
		return fmt.Errorf("error calling %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequests.WithLabelValues("backend", "status").Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	metrics.UpstreamRequests.WithLabelValues("backend", "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding %s response: %w", path, err)
	}
	return nil
}

// ScoreLead asks the backend to score a lead.
func (c *Client) ScoreLead(ctx context.Context, f scoring.Features) (scoring.Result, error) {
	var res scoring.Result
	if err := c.post(ctx, "/api/leads/score", f, &res); err != nil {
		return scoring.Result{}, err
	}
	return res, nil
}

type generateResponse struct {
	Content string `json:"content"`
}

// GenerateContent asks the backend to draft marketing content.
func (c *Client) GenerateContent(ctx context.Context, req models.ContentRequest) (string, error) {
	var res generateResponse
	if err := c.post(ctx, "/api/marketing/generate", req, &res); err != nil {
		return "", err
	}
	if strings.TrimSpace(res.Content) == "" {
		return "", fmt.Errorf("%w: empty content", ErrUpstream)
	}
	return res.Content, nil
}

type callRequest struct {
	LeadID      uuid.UUID `json:"leadId"`
	PhoneNumber string    `json:"phoneNumber"`
	ContactName string    `json:"contactName"`
	Script      *string   `json:"script,omitempty"`
}

// StartCall asks the backend to place a voice call to a lead.
func (c *Client) StartCall(ctx context.Context, lead models.Lead, script *string) (*models.CallResponse, error) {
	if lead.Phone == nil || *lead.Phone == "" {
		return nil, fmt.Errorf("lead %s has no phone number", lead.ID)
	}

	var res models.CallResponse
	err := c.post(ctx, "/api/calls", callRequest{
		LeadID:      lead.ID,
		PhoneNumber: *lead.Phone,
		ContactName: lead.ContactName,
		Script:      script,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
