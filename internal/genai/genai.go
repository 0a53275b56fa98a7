package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/FaheemPechuho/FYP1-All-Modules-Clone-sub001/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

var (
	ErrNotConfigured = errors.New("generative text API is not configured")
	ErrNoCandidates  = errors.New("generative text API returned no text")
)

// Client calls a Gemini-style generateContent endpoint.
type Client struct {
	BaseURL    string
	Model      string
	APIKey     string
	MaxElapsed time.Duration
	HTTP       *http.Client
}

func NewClient(baseURL, model, apiKey string, timeout, maxElapsed time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		APIKey:     apiKey,
		MaxElapsed: maxElapsed,
		HTTP:       &http.Client{Timeout: timeout},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("generateContent returned %d: %s", e.code, e.body)
}

func (c *Client) endpoint() string {
	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.BaseURL, url.PathEscape(c.Model))
	return u + "?key=" + url.QueryEscape(c.APIKey)
}

// Generate sends prompt to the model and returns the first candidate's text.
// Server errors and transport failures are retried with exponential backoff
// until MaxElapsed; client errors are returned at once.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.APIKey == "" {
		return "", ErrNotConfigured
	}
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("error encoding request: %w", err)
	}

	var text string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			serr := &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(detail))}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return serr
			}
			return backoff.Permanent(serr)
		}

		var body generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return backoff.Permanent(fmt.Errorf("error decoding response: %w", err))
		}
		for _, cand := range body.Candidates {
			var sb strings.Builder
			for _, p := range cand.Content.Parts {
				sb.WriteString(p.Text)
			}
			if sb.Len() > 0 {
				text = sb.String()
				return nil
			}
		}
		return backoff.Permanent(ErrNoCandidates)
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 200 * time.Millisecond
	policy.MaxElapsedTime = c.MaxElapsed

	notify := func(err error, wait time.Duration) {
		logger.Warn().Err(err).Dur("retry_in", wait).Msg("generateContent failed, retrying")
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		metrics.UpstreamRequests.WithLabelValues("genai", "error").Inc()
		return "", err
	}
	metrics.UpstreamRequests.WithLabelValues("genai", "ok").Inc()
	return text, nil
}
