// Package intent classifies a canonical-language question into the label
// that drives response formatting.
package intent

import (
	"context"
	"strings"
)

// Label is a question category.
type Label string

const (
	Factual      Label = "factual"
	Conversation Label = "conversation"
	Timeline     Label = "timeline"
	Love         Label = "love"
	Career       Label = "career"
	General      Label = "general"
)

// Labels lists every recognized label.
var Labels = []Label{Factual, Conversation, Timeline, Love, Career, General}

// Parse maps a string onto a known label, defaulting to General.
func Parse(s string) Label {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range Labels {
		if string(l) == s {
			return l
		}
	}
	return General
}

// Classifier assigns a label to a canonical-language question.
type Classifier interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// KeywordClassifier is a deterministic rule-based classifier. It is the
// default: same input always yields the same label, with no external call.
type KeywordClassifier struct{}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

var keywordRules = []struct {
	label    Label
	keywords []string
}{
	{Timeline, []string{"when will", "when can", "when should", "how long", "timeframe", "what month", "by when"}},
	{Factual, []string{"capital of", "who is the", "what year", "how many", "define ", "population of", "distance "}},
	{Love, []string{"love", "relationship", "partner", "romance", "marriage", "crush", "soulmate"}},
	{Career, []string{"career", "job", "promotion", "interview", "business", "work "}},
	{Conversation, []string{"mean", "meaning", "hello", "hi ", "thank", "how are you", "tell me about"}},
}

func (c *KeywordClassifier) Classify(_ context.Context, text string) (Label, error) {
	lowered := strings.ToLower(text)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.label, nil
			}
		}
	}
	return General, nil
}
