package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/config"
)

func TestChatProviderGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "deepseek-chat", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "pancakes please", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"Pancakes\"}"}}]}`))
	}))
	defer server.Close()

	p := NewChatProvider(server.URL, "test-key", "deepseek-chat")
	out, err := p.Generate(context.Background(), "pancakes please")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Pancakes"}`, out)
}

func TestChatProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"overloaded"}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewChatProvider(server.URL, "k", "m").Generate(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}

func TestChatProviderHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewChatProvider(server.URL, "k", "m").Generate(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestJoinCandidateText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"title":`), genai.Text(`"Soup"}`)}},
		}},
	}
	out, err := joinCandidateText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Soup"}`, out)

	_, err = joinCandidateText(&genai.GenerateContentResponse{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewSelectsProvider(t *testing.T) {
	p, err := New(context.Background(), &config.Config{LLMProvider: "openai", LLMAPIURL: "http://localhost", LLMModel: "m"})
	require.NoError(t, err)
	assert.IsType(t, &ChatProvider{}, p)
	assert.NoError(t, p.Close())

	_, err = New(context.Background(), &config.Config{LLMProvider: "carrier-pigeon"})
	assert.Error(t, err)
}
