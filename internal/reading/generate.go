package reading

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tarotara/tarotara/internal/deck"
	"github.com/tarotara/tarotara/internal/intent"
	"github.com/tarotara/tarotara/internal/observe"
	"github.com/tarotara/tarotara/internal/provider"
	"github.com/tarotara/tarotara/internal/retriever"
	"github.com/tarotara/tarotara/internal/session"
	"github.com/tarotara/tarotara/internal/store"
)

const systemPersona = `You are TarotTara, a warm and direct tarot reader.
Answer with a JSON object only:
{"interpretation": "...", "card": "optional single card for timeline answers",
 "cards": ["optional cards drawn"], "date_range": ["YYYY-MM-DD", "YYYY-MM-DD"]}
Use the draw_cards function when the reading calls for fresh cards.
Include date_range only for timeline questions.`

// historyWindow bounds how many prior turns are replayed into the prompt.
const historyWindow = 6

// maxToolRounds bounds the draw_cards round trips per generation.
const maxToolRounds = 3

// ModelGenerator produces readings through the chat provider, augmented with
// retrieved card meanings and the session history.
type ModelGenerator struct {
	provider  provider.Provider
	retriever *retriever.Retriever
	deck      *deck.Deck
	profile   *store.Profile
	observe   *observe.Observer
	topK      int

	mu           sync.Mutex
	promptTokens int
	outputTokens int
}

func NewModelGenerator(p provider.Provider, r *retriever.Retriever, d *deck.Deck, obs *observe.Observer) *ModelGenerator {
	return &ModelGenerator{
		provider:  p,
		retriever: r,
		deck:      d,
		observe:   obs,
		topK:      3,
	}
}

// SetProfile attaches user info that seasons the persona prompt. The profile
// is configuration context only; no reading logic depends on it.
func (g *ModelGenerator) SetProfile(p *store.Profile) {
	g.profile = p
}

// Usage returns the cumulative provider token usage of this generator.
func (g *ModelGenerator) Usage() (promptTokens, outputTokens int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.promptTokens, g.outputTokens
}

func (g *ModelGenerator) recordUsage(u provider.Usage) {
	g.mu.Lock()
	g.promptTokens += u.PromptTokens
	g.outputTokens += u.CompletionTokens
	g.mu.Unlock()
}

func (g *ModelGenerator) Generate(ctx context.Context, question string, label intent.Label, history []session.Turn) (*Result, error) {
	ctx, span := g.observe.StartSpan(ctx, "Generate")
	defer span.End()

	messages := []provider.Message{
		{Role: "system", Content: g.personaPrompt()},
	}

	if start := len(history) - historyWindow; start > 0 {
		history = history[start:]
	}
	for _, turn := range history {
		messages = append(messages, provider.Message{Role: "user", Content: turn.Translated})
		if r, ok := turn.Result.(*Result); ok && r != nil {
			messages = append(messages, provider.Message{Role: "assistant", Content: r.Interpretation})
		}
	}

	messages = append(messages, provider.Message{
		Role:    "user",
		Content: g.questionPrompt(ctx, question, label),
	})

	resp, err := g.provider.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	g.recordUsage(resp.Usage)

	// The model may ask for cards before it commits to an interpretation.
	var drawn []string
	for round := 0; len(resp.ToolCalls) > 0 && round < maxToolRounds; round++ {
		messages = append(messages, provider.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			cards := g.drawCards(call)
			drawn = append(drawn, cards...)
			messages = append(messages, provider.Message{
				Role:       "tool",
				Content:    strings.Join(cards, ", "),
				ToolCallID: call.ID,
			})
		}

		resp, err = g.provider.Chat(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		g.recordUsage(resp.Usage)
	}

	result := parseResult(resp.Content)
	if len(result.Cards) == 0 && len(drawn) > 0 {
		result.Cards = drawn
	}
	return result, nil
}

func (g *ModelGenerator) personaPrompt() string {
	if g.profile == nil {
		return systemPersona
	}
	var sb strings.Builder
	sb.WriteString(systemPersona)
	sb.WriteString("\n\nThe querent:")
	if g.profile.Name != "" {
		fmt.Fprintf(&sb, " name %s.", g.profile.Name)
	}
	if g.profile.DOB != "" {
		fmt.Fprintf(&sb, " born %s", g.profile.DOB)
		if g.profile.BirthPlace != "" {
			fmt.Fprintf(&sb, " in %s", g.profile.BirthPlace)
		}
		sb.WriteString(".")
	}
	if g.profile.Mood != "" {
		fmt.Fprintf(&sb, " Mood today: %s.", g.profile.Mood)
	}
	if g.profile.DaySummary != "" {
		fmt.Fprintf(&sb, " Their day: %s.", g.profile.DaySummary)
	}
	return sb.String()
}

// questionPrompt assembles the user message, prepending whatever card
// meanings the retriever can supply. Retrieval failures degrade to a prompt
// without corpus context; the reading still happens.
func (g *ModelGenerator) questionPrompt(ctx context.Context, question string, label intent.Label) string {
	var sb strings.Builder

	if g.retriever != nil {
		meanings, err := g.retriever.Retrieve(ctx, question, g.topK)
		if err != nil {
			g.observe.Log().Warn().Err(err).Msg("retrieval failed, generating without corpus context")
		} else if len(meanings) > 0 {
			sb.WriteString("Relevant card meanings:\n")
			for _, m := range meanings {
				fmt.Fprintf(&sb, "- %s\n", m)
			}
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "Intent: %s\nQuestion: %s", label, question)
	return sb.String()
}

func (g *ModelGenerator) drawCards(call provider.ToolCall) []string {
	count := 3
	var args struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(call.Args), &args); err == nil && args.Count > 0 {
		count = args.Count
	}
	return g.deck.Draw(count)
}

// parseResult decodes the model's JSON reply. A reply that is not valid JSON
// is kept whole as the interpretation rather than discarded.
func parseResult(content string) *Result {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var result Result
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil || result.Interpretation == "" {
		return &Result{Interpretation: strings.TrimSpace(content)}
	}
	return &result
}
