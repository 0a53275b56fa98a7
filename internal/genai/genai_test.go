package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"there"}]}}]}`

func newTestClient(url string) *Client {
	return NewClient(url, "gemini-test", "secret", time.Second, 2*time.Second)
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "Write a greeting", req.Contents[0].Parts[0].Text)

		w.Write([]byte(okBody))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "Write a greeting")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(okBody))
	}))
	defer server.Close()

	text, err := newTestClient(server.URL).Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad key", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestGenerateNotConfigured(t *testing.T) {
	c := NewClient("http://unused", "m", "", time.Second, time.Second)
	_, err := c.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
