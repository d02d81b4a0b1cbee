package provider

import (
	"context"
	"unicode"
)

// StubProvider is a deterministic provider for tests and offline demos.
type StubProvider struct {
	Responses []Response
	ChatCalls int
}

func NewStubProvider() *StubProvider {
	return &StubProvider{
		Responses: []Response{
			{
				Content: `{"interpretation":"The Tower signals sudden upheaval: a structure in your life built on shaky ground gives way so something truer can be rebuilt.","cards":["The Tower","The Star"]}`,
				Usage:   Usage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160},
			},
			{
				Content: `{"interpretation":"The Star follows the storm. Patience and quiet recovery are favored over decisive action right now.","cards":["The Star"]}`,
				Usage:   Usage{PromptTokens: 150, CompletionTokens: 30, TotalTokens: 180},
			},
		},
	}
}

func (m *StubProvider) Chat(ctx context.Context, messages []Message) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	m.ChatCalls++

	if len(m.Responses) == 0 {
		return &Response{
			Content: `{"interpretation":"The cards are quiet. Ask again with an open mind."}`,
			Usage:   Usage{},
		}, nil
	}

	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return &resp, nil
}

// Embed returns a letter-frequency vector. It is stable for a given text, so
// identical corpora always produce identical indexes.
func (m *StubProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range text {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

func (m *StubProvider) Name() string {
	return "stub"
}
