package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/tarotara/tarotara/internal/provider"
)

const classifyPrompt = `Classify the question into exactly one label:
factual, conversation, timeline, love, career, general.
Reply with the label only, nothing else.

Question: %s`

// ModelClassifier asks the provider to label the question. Deterministic for
// a fixed model at temperature zero, which is how the chat call is issued.
type ModelClassifier struct {
	provider provider.Provider
}

func NewModelClassifier(p provider.Provider) *ModelClassifier {
	return &ModelClassifier{provider: p}
}

func (c *ModelClassifier) Classify(ctx context.Context, text string) (Label, error) {
	resp, err := c.provider.Chat(ctx, []provider.Message{
		{Role: "user", Content: fmt.Sprintf(classifyPrompt, text)},
	})
	if err != nil {
		return General, fmt.Errorf("intent classification failed: %w", err)
	}
	return Parse(strings.TrimSpace(resp.Content)), nil
}
