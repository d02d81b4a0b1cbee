// Package translate normalizes question text to the canonical working
// language and renders results back into the user's language.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tarotara/tarotara/internal/provider"
)

// Canonical is the fixed working language all input is normalized to before
// classification and generation.
const Canonical = "en"

// ErrTranslation marks a detection or translation failure. Callers degrade
// to a warning message rather than aborting the session.
var ErrTranslation = errors.New("translation failed")

// Service detects a text's language and translates between languages.
type Service interface {
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text, source, target string) (string, error)
}

const detectPrompt = `Identify the language of the text below.
Reply with its ISO 639-1 code only (e.g. "en", "hi", "es"), nothing else.

Text: %s`

const translatePrompt = `Translate the text below from %s to %s.
Reply with the translation only, no commentary.

Text: %s`

// ModelTranslator performs detection and translation through the chat
// provider.
type ModelTranslator struct {
	provider provider.Provider
}

func NewModelTranslator(p provider.Provider) *ModelTranslator {
	return &ModelTranslator{provider: p}
}

func (t *ModelTranslator) Detect(ctx context.Context, text string) (string, error) {
	resp, err := t.provider.Chat(ctx, []provider.Message{
		{Role: "user", Content: fmt.Sprintf(detectPrompt, text)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: detecting language: %v", ErrTranslation, err)
	}

	code := strings.ToLower(strings.TrimSpace(resp.Content))
	if len(code) != 2 {
		// Models sometimes reply with prose; fall back to the script.
		if byScript := DetectScript(text); byScript != "" {
			return byScript, nil
		}
		return "", fmt.Errorf("%w: unexpected language code %q", ErrTranslation, code)
	}
	return code, nil
}

func (t *ModelTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == target {
		return text, nil
	}

	resp, err := t.provider.Chat(ctx, []provider.Message{
		{Role: "user", Content: fmt.Sprintf(translatePrompt, source, target, text)},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s to %s: %v", ErrTranslation, source, target, err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// DetectScript guesses a language from the dominant Unicode script of the
// text. It covers scripts that map to a single common language; Latin text
// and mixed or unknown scripts return "".
func DetectScript(text string) string {
	counts := map[string]int{}
	total := 0
	for _, r := range text {
		for lang, table := range scriptTables {
			if unicode.Is(table, r) {
				counts[lang]++
				total++
			}
		}
	}
	if total == 0 {
		return ""
	}
	for lang, n := range counts {
		// Majority of script-bearing runes decides.
		if n*2 > total {
			return lang
		}
	}
	return ""
}

var scriptTables = map[string]*unicode.RangeTable{
	"hi": unicode.Devanagari,
	"ru": unicode.Cyrillic,
	"el": unicode.Greek,
	"ar": unicode.Arabic,
	"he": unicode.Hebrew,
	"ko": unicode.Hangul,
	"ja": unicode.Hiragana,
	"th": unicode.Thai,
	"ta": unicode.Tamil,
	"bn": unicode.Bengali,
}

// Noop is a Service for canonical-only sessions: every text is reported as
// canonical and translation returns the input unchanged.
type Noop struct{}

func (Noop) Detect(ctx context.Context, text string) (string, error) {
	return Canonical, nil
}

func (Noop) Translate(ctx context.Context, text, source, target string) (string, error) {
	return text, nil
}
