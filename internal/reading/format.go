package reading

import (
	"fmt"
	"strings"
	"time"

	"github.com/tarotara/tarotara/internal/intent"
)

// Format renders a result according to the question's intent.
func Format(result *Result, label intent.Label) string {
	switch {
	case label == intent.Factual:
		return RefusalMessage

	case label == intent.Conversation:
		return result.Interpretation

	case label == intent.Timeline && result.Card != "" && len(result.DateRange) == 2:
		start, err1 := time.Parse("2006-01-02", result.DateRange[0])
		end, err2 := time.Parse("2006-01-02", result.DateRange[1])
		if err1 != nil || err2 != nil {
			break
		}
		return fmt.Sprintf("Card: %s\nTimeframe: %s – %s\n\n%s",
			result.Card, formatDate(start), formatDate(end), result.Interpretation)
	}

	if len(result.Cards) > 0 {
		return fmt.Sprintf("Cards Drawn: %s\n\n%s", strings.Join(result.Cards, ", "), result.Interpretation)
	}
	return result.Interpretation
}

// formatDate renders a date as e.g. "January 1, 2024".
func formatDate(t time.Time) string {
	return fmt.Sprintf("%s %d, %d", t.Month(), t.Day(), t.Year())
}
