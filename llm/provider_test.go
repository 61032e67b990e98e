package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthdesk/medassist/config"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantType string
		wantErr  bool
	}{
		{"openai", config.LLMConfig{Provider: "openai", APIKey: "sk-test", Model: "gpt-3.5-turbo"}, "openai", false},
		{"groq", config.LLMConfig{Provider: "groq", APIKey: "gsk-test", Model: "llama-3.3-70b-versatile", BaseURL: "https://api.groq.com/openai/v1"}, "groq", false},
		{"offline", config.LLMConfig{Provider: "offline"}, "offline", false},
		{"unknown", config.LLMConfig{Provider: "anthropic"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.GetProviderType() != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, p.GetProviderType())
			}
		})
	}
}

func TestOpenAIProvider_GenerateCompletion(t *testing.T) {
	var gotReq struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Drink plenty of fluids."}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	p := newOpenAIProvider(config.LLMConfig{
		Provider:    "openai",
		APIKey:      "sk-test",
		BaseURL:     server.URL,
		Model:       "gpt-3.5-turbo",
		Temperature: 0.7,
		MaxTokens:   800,
	}, server.Client())

	reply, err := p.GenerateCompletion(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a medical assistant."},
		{Role: RoleUser, Content: "I have a mild headache."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Drink plenty of fluids." {
		t.Errorf("unexpected reply: %q", reply)
	}
	if gotReq.Model != "gpt-3.5-turbo" {
		t.Errorf("expected model gpt-3.5-turbo, got %s", gotReq.Model)
	}
	if gotReq.MaxTokens != 800 {
		t.Errorf("expected max_tokens 800, got %d", gotReq.MaxTokens)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestOpenAIProvider_ParamOverrides(t *testing.T) {
	var gotTemp float64
	var gotMaxTokens int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotTemp = req.Temperature
		gotMaxTokens = req.MaxTokens
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`))
	}))
	defer server.Close()

	p := newOpenAIProvider(config.LLMConfig{
		Provider: "openai", APIKey: "sk-test", BaseURL: server.URL,
		Model: "gpt-3.5-turbo", Temperature: 0.7, MaxTokens: 800,
	}, server.Client())

	_, err := p.GenerateCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hi"}},
		WithTemperature(0.3), WithMaxTokens(400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTemp < 0.29 || gotTemp > 0.31 {
		t.Errorf("expected temperature 0.3, got %f", gotTemp)
	}
	if gotMaxTokens != 400 {
		t.Errorf("expected max_tokens 400, got %d", gotMaxTokens)
	}
}

func TestOpenAIProvider_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	}))
	defer server.Close()

	p := newOpenAIProvider(config.LLMConfig{
		Provider: "openai", APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-3.5-turbo",
	}, server.Client())

	_, err := p.GenerateCompletion(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("expected ErrUpstream, got %v", err)
	}
}

func TestOfflineProvider_Deterministic(t *testing.T) {
	p := NewOfflineProvider()
	msgs := []Message{
		{Role: RoleSystem, Content: "You are a medical assistant."},
		{Role: RoleUser, Content: "I have a mild headache."},
	}

	first, err := p.GenerateCompletion(context.Background(), msgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := p.GenerateCompletion(context.Background(), msgs)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != first {
			t.Fatal("offline reply not deterministic")
		}
	}
	if !strings.Contains(first, "mild headache") {
		t.Errorf("expected reply to echo the user message, got %q", first)
	}
	if p.GetProviderType() != "offline" {
		t.Errorf("unexpected provider type %s", p.GetProviderType())
	}
}
