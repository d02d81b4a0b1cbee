package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStubProvider_Chat(t *testing.T) {
	p := NewStubProvider()
	ctx := context.Background()

	resp, err := p.Chat(ctx, []Message{{Role: "user", Content: "What does the Tower mean?"}})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content == "" {
		t.Fatal("expected non-empty content")
	}
	if p.ChatCalls != 1 {
		t.Errorf("expected 1 chat call recorded, got %d", p.ChatCalls)
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		t.Fatalf("stub responses must be valid reading JSON: %v", err)
	}
	if _, ok := result["interpretation"]; !ok {
		t.Error("expected an interpretation field")
	}
}

func TestStubProvider_ChatExhausted(t *testing.T) {
	p := &StubProvider{}
	ctx := context.Background()

	resp, err := p.Chat(ctx, nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content == "" {
		t.Error("expected fallback content once scripted responses run out")
	}
}

func TestStubProvider_EmbedDeterministic(t *testing.T) {
	p := NewStubProvider()
	ctx := context.Background()

	a, err := p.Embed(ctx, "The Tower means upheaval")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	b, _ := p.Embed(ctx, "The Tower means upheaval")

	if len(a) != 26 {
		t.Fatalf("expected 26-dim vector, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("expected identical vectors for identical text")
		}
	}
}

func TestAnthropicProvider_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-api-key"))
		}

		var req anthropicRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Tools) != 1 || req.Tools[0].Name != DrawCardsTool {
			t.Errorf("expected the %s tool to be offered", DrawCardsTool)
		}

		json.NewEncoder(w).Encode(anthropicResponse{
			Content: []anthropicContentBlock{{Type: "text", Text: "The Tower speaks of change."}},
			Usage:   anthropicUsage{InputTokens: 10, OutputTokens: 5},
		})
	}))
	defer server.Close()

	p, err := NewAnthropicProvider("test-key", "claude-test")
	if err != nil {
		t.Fatalf("NewAnthropicProvider failed: %v", err)
	}
	p.SetBaseURL(server.URL)

	resp, err := p.Chat(context.Background(), []Message{{Role: "user", Content: "Tower?"}})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content != "The Tower speaks of change." {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", resp.Usage.TotalTokens)
	}
}

func TestAnthropicProvider_RequiresKey(t *testing.T) {
	if _, err := NewAnthropicProvider("", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider("", "", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider("", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}
