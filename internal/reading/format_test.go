package reading

import (
	"strings"
	"testing"
	"time"

	"github.com/tarotara/tarotara/internal/intent"
)

func TestFormat(t *testing.T) {
	t.Run("FactualIgnoresResult", func(t *testing.T) {
		result := &Result{Interpretation: "Paris is the capital of France."}
		got := Format(result, intent.Factual)
		if got != RefusalMessage {
			t.Errorf("expected refusal, got %q", got)
		}
	})

	t.Run("ConversationIsInterpretationOnly", func(t *testing.T) {
		result := &Result{
			Interpretation: "The Tower speaks of upheaval.",
			Cards:          []string{"The Tower"},
		}
		got := Format(result, intent.Conversation)
		if got != "The Tower speaks of upheaval." {
			t.Errorf("expected bare interpretation, got %q", got)
		}
	})

	t.Run("Timeline", func(t *testing.T) {
		result := &Result{
			Interpretation: "Change arrives with the season.",
			Card:           "Wheel of Fortune",
			DateRange:      []string{"2024-01-01", "2024-03-01"},
		}
		got := Format(result, intent.Timeline)
		if !strings.HasPrefix(got, "Card: Wheel of Fortune\n") {
			t.Errorf("expected card line first, got %q", got)
		}
		if !strings.Contains(got, "January 1, 2024 – March 1, 2024") {
			t.Errorf("expected spelled-out timeframe, got %q", got)
		}
		if !strings.HasSuffix(got, "Change arrives with the season.") {
			t.Errorf("expected interpretation last, got %q", got)
		}
	})

	t.Run("TimelineWithoutRangeFallsBack", func(t *testing.T) {
		result := &Result{
			Interpretation: "Soon.",
			Cards:          []string{"The Star", "The Moon"},
		}
		got := Format(result, intent.Timeline)
		if !strings.HasPrefix(got, "Cards Drawn: The Star, The Moon\n") {
			t.Errorf("expected cards-drawn fallback, got %q", got)
		}
	})

	t.Run("TimelineMalformedRangeFallsBack", func(t *testing.T) {
		result := &Result{
			Interpretation: "Soon.",
			Card:           "The Star",
			DateRange:      []string{"soon", "later"},
		}
		got := Format(result, intent.Timeline)
		if got != "Soon." {
			t.Errorf("expected plain interpretation, got %q", got)
		}
	})

	t.Run("GeneralWithCards", func(t *testing.T) {
		result := &Result{
			Interpretation: "Trust the process.",
			Cards:          []string{"The Fool"},
		}
		got := Format(result, intent.General)
		if got != "Cards Drawn: The Fool\n\nTrust the process." {
			t.Errorf("unexpected format: %q", got)
		}
	})

	t.Run("GeneralWithoutCards", func(t *testing.T) {
		result := &Result{Interpretation: "Trust the process."}
		got := Format(result, intent.Love)
		if got != "Trust the process." {
			t.Errorf("unexpected format: %q", got)
		}
	})
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2024-01-01", "January 1, 2024"},
		{"2024-03-01", "March 1, 2024"},
		{"2025-12-31", "December 31, 2025"},
	}
	for _, tc := range cases {
		d, err := time.Parse("2006-01-02", tc.date)
		if err != nil {
			t.Fatalf("bad test date %q: %v", tc.date, err)
		}
		if got := formatDate(d); got != tc.want {
			t.Errorf("formatDate(%s) = %q, want %q", tc.date, got, tc.want)
		}
	}
}
