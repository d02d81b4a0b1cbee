package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/tarotara/tarotara/internal/provider"
)

// scriptedProvider replays canned chat responses.
type scriptedProvider struct {
	replies []string
	err     error
}

func (s *scriptedProvider) Chat(ctx context.Context, messages []provider.Message) (*provider.Response, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return &provider.Response{}, nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return &provider.Response{Content: reply}, nil
}

func (s *scriptedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("not supported")
}

func (s *scriptedProvider) Name() string { return "scripted" }

func TestModelTranslator_Detect(t *testing.T) {
	tr := NewModelTranslator(&scriptedProvider{replies: []string{" HI \n"}})

	code, err := tr.Detect(context.Background(), "मेरा भविष्य क्या है?")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if code != "hi" {
		t.Errorf("expected 'hi', got %q", code)
	}
}

func TestModelTranslator_DetectBadCode(t *testing.T) {
	tr := NewModelTranslator(&scriptedProvider{replies: []string{"hindi, probably"}})

	_, err := tr.Detect(context.Background(), "text")
	if !errors.Is(err, ErrTranslation) {
		t.Fatalf("expected ErrTranslation for a malformed code, got %v", err)
	}
}

func TestModelTranslator_DetectFallsBackToScript(t *testing.T) {
	// Prose reply from the model, but the text itself is Devanagari.
	tr := NewModelTranslator(&scriptedProvider{replies: []string{"hindi, probably"}})

	code, err := tr.Detect(context.Background(), "मेरा भविष्य क्या है?")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if code != "hi" {
		t.Errorf("expected 'hi' from script fallback, got %q", code)
	}
}

func TestDetectScript(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"devanagari", "मेरा भविष्य क्या है?", "hi"},
		{"cyrillic", "Что меня ждёт?", "ru"},
		{"hangul", "내 미래는 어떻게 되나요?", "ko"},
		{"latin", "What is my future?", ""},
		{"empty", "", ""},
		{"mixed latin and devanagari", "what does भविष्य mean", "hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectScript(tt.text); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestModelTranslator_Translate(t *testing.T) {
	tr := NewModelTranslator(&scriptedProvider{replies: []string{"What is my future?"}})

	got, err := tr.Translate(context.Background(), "मेरा भविष्य क्या है?", "hi", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "What is my future?" {
		t.Errorf("unexpected translation: %q", got)
	}
}

func TestModelTranslator_TranslateSameLanguage(t *testing.T) {
	// No provider call should happen when source == target.
	tr := NewModelTranslator(&scriptedProvider{err: errors.New("should not be called")})

	got, err := tr.Translate(context.Background(), "hello", "en", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestNoop(t *testing.T) {
	var n Noop

	lang, err := n.Detect(context.Background(), "कल का दिन कैसा रहेगा?")
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if lang != Canonical {
		t.Errorf("expected canonical language, got %q", lang)
	}

	got, err := n.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestModelTranslator_ProviderFailure(t *testing.T) {
	tr := NewModelTranslator(&scriptedProvider{err: errors.New("network down")})

	if _, err := tr.Detect(context.Background(), "text"); !errors.Is(err, ErrTranslation) {
		t.Errorf("expected ErrTranslation from Detect, got %v", err)
	}
	if _, err := tr.Translate(context.Background(), "text", "hi", "en"); !errors.Is(err, ErrTranslation) {
		t.Errorf("expected ErrTranslation from Translate, got %v", err)
	}
}
