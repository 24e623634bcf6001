package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhancePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enhance", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req EnhanceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello world", req.Text)

		json.NewEncoder(w).Encode(EnhanceResponse{
			EnhancedText:  "Hello, world! 🚀",
			Hashtags:      []string{"#hello"},
			ViralityScore: 72,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	resp, err := client.EnhancePost(EnhanceRequest{Text: "hello world", Tone: "casual"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world! 🚀", resp.EnhancedText)
	assert.Equal(t, 72, resp.ViralityScore)
}

func TestEnhancePostServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"model overloaded"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.EnhancePost(EnhanceRequest{Text: "hello"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestSuggestHashtags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hashtags", r.URL.Path)
		json.NewEncoder(w).Encode(HashtagResponse{Hashtags: []string{"#golang", "#saas"}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	resp, err := client.SuggestHashtags("shipping a side project", "twitter")
	require.NoError(t, err)
	assert.Len(t, resp.Hashtags, 2)
}
