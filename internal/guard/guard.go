// Package guard enforces per-session limits: question shape, session length
// and provider token budgets.
package guard

import "unicode/utf8"

// Policy defines the limits for a reading session.
type Policy struct {
	MaxQuestionRunes       int      `json:"max_question_runes"`
	MaxQuestionsPerSession int      `json:"max_questions_per_session"`
	MaxPromptTokens        int      `json:"max_prompt_tokens"`
	MaxOutputTokens        int      `json:"max_output_tokens"`
	CorpusGlobs            []string `json:"corpus_globs"`
}

// DefaultPolicy provides safe defaults.
var DefaultPolicy = Policy{
	MaxQuestionRunes:       500,
	MaxQuestionsPerSession: 50,
	MaxPromptTokens:        200000,
	MaxOutputTokens:        100000,
	CorpusGlobs:            []string{"**/*.md", "**/*.txt"},
}

// Violation represents a specific breach of policy.
type Violation struct {
	Rule    string
	Message string
	Fatal   bool
}

// Guard enforces the policy.
type Guard struct {
	policy Policy
}

func New(p Policy) *Guard {
	return &Guard{policy: p}
}

// Policy returns the guard's current policy configuration.
func (g *Guard) Policy() Policy {
	return g.policy
}

// CheckQuestion verifies a question can be asked: non-empty, within length,
// and the session has room for another turn.
func (g *Guard) CheckQuestion(question string, asked int) *Violation {
	if question == "" {
		return &Violation{Rule: "question", Message: "Question is empty", Fatal: false}
	}
	if n := utf8.RuneCountInString(question); n > g.policy.MaxQuestionRunes {
		return &Violation{Rule: "max_question_runes", Message: "Question is too long", Fatal: false}
	}
	if asked >= g.policy.MaxQuestionsPerSession {
		return &Violation{Rule: "max_questions_per_session", Message: "Session question limit reached", Fatal: true}
	}
	return nil
}

// CheckBudget verifies cumulative provider usage is within limits.
func (g *Guard) CheckBudget(promptTokens, outputTokens int) *Violation {
	if promptTokens > g.policy.MaxPromptTokens {
		return &Violation{Rule: "max_prompt_tokens", Message: "Prompt token budget exceeded", Fatal: true}
	}
	if outputTokens > g.policy.MaxOutputTokens {
		return &Violation{Rule: "max_output_tokens", Message: "Output token budget exceeded", Fatal: true}
	}
	return nil
}
