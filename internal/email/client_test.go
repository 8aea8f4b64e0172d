package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whisperbox/internal/config"
)

func TestSendVerificationEmail(t *testing.T) {
	var got sendRequest
	var authz string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(config.EmailConfig{APIKey: "re_123", From: "noreply@example.com"})
	c.baseURL = srv.URL

	err := c.SendVerificationEmail(context.Background(), "alice@example.com", "alice", "123456")
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_123", authz)
	assert.Equal(t, "noreply@example.com", got.From)
	assert.Equal(t, []string{"alice@example.com"}, got.To)
	assert.Contains(t, got.HTML, "123456")
	assert.Contains(t, got.HTML, "alice")
}

func TestSendVerificationEmailUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(config.EmailConfig{APIKey: "bad", From: "noreply@example.com"})
	c.baseURL = srv.URL

	err := c.SendVerificationEmail(context.Background(), "alice@example.com", "alice", "123456")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}
