package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return NewClient(Options{APIKey: "test-key", Model: "gemini-test", BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func TestNewClientRequiresKey(t *testing.T) {
	assert.Nil(t, NewClient(Options{APIKey: "  "}))

	c := NewClient(Options{APIKey: "k"})
	require.NotNil(t, c)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var body GenerateRequest
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) &&
			assert.NotNil(t, body.SystemInstruction) &&
			assert.Len(t, body.Contents, 1) {
			assert.Equal(t, "be brief", body.SystemInstruction.Parts[0].Text)
			assert.Equal(t, "user", body.Contents[0].Role)
			assert.Equal(t, "hello", body.Contents[0].Parts[0].Text)
		}

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"## Hi"},{"text":" there"}]},"finishReason":"STOP"}]}`))
	})

	text, err := c.Generate(context.Background(), "be brief", "hello")
	require.NoError(t, err)
	assert.Equal(t, "## Hi there", text)
}

func TestGenerateStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		substr string
	}{
		{"unauthorized", http.StatusUnauthorized, "", ErrUnauthorized, ""},
		{"forbidden", http.StatusForbidden, "", ErrUnauthorized, ""},
		{"rate limited", http.StatusTooManyRequests, "", ErrRateLimited, ""},
		{"server error with message", http.StatusInternalServerError, `{"error":{"code":500,"message":"backend exploded"}}`, nil, "backend exploded"},
		{"bad gateway", http.StatusBadGateway, "<html>", nil, "unexpected status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Generate(context.Background(), "", "x")
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.substr != "" {
				assert.Contains(t, err.Error(), tt.substr)
			}
		})
	}
}

func TestGenerateEmptyAndBlocked(t *testing.T) {
	empty := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})
	_, err := empty.Generate(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	blocked := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	})
	_, err = blocked.Generate(context.Background(), "", "x")
	assert.ErrorContains(t, err, "SAFETY")
}

func TestGenerateHonoursContext(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "", "x")
	assert.ErrorContains(t, err, "request failed")
}
