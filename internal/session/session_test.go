package session

import "testing"

func TestContext_Ordering(t *testing.T) {
	c := NewContext("en")

	c.AddEntry("Q1", "Q1", "conversation", "R1")
	c.AddEntry("Q2", "Q2", "timeline", "R2")
	c.AddEntry("Q3", "Q3", "conversation", "R3")

	history := c.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	for i, want := range []string{"Q1", "Q2", "Q3"} {
		if history[i].Question != want {
			t.Errorf("turn %d: expected question %q, got %q", i, want, history[i].Question)
		}
	}
}

func TestContext_HistoryIsCopy(t *testing.T) {
	c := NewContext("en")
	c.AddEntry("Q1", "Q1", "conversation", "R1")

	history := c.History()
	history[0].Question = "mutated"

	if c.History()[0].Question != "Q1" {
		t.Error("mutating the returned slice must not affect the context")
	}
}

func TestContext_LanguageChangeResetsHistory(t *testing.T) {
	c := NewContext("en")
	c.AddEntry("Q1", "Q1", "conversation", "R1")
	c.AddEntry("Q2", "Q2", "conversation", "R2")

	c.SetLanguage("hi")

	if c.Language() != "hi" {
		t.Errorf("expected language 'hi', got %q", c.Language())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty history after language change, got %d turns", c.Len())
	}
}

func TestContext_SameLanguageKeepsHistory(t *testing.T) {
	c := NewContext("en")
	c.AddEntry("Q1", "Q1", "conversation", "R1")

	c.SetLanguage("en")

	if c.Len() != 1 {
		t.Errorf("expected history preserved for a no-op language change, got %d turns", c.Len())
	}
}

func TestContext_DefaultLanguage(t *testing.T) {
	c := NewContext("")
	if c.Language() != "en" {
		t.Errorf("expected default language 'en', got %q", c.Language())
	}
}

func TestManager(t *testing.T) {
	m := NewManager()

	id1, ctx1 := m.Open("en")
	id2, ctx2 := m.Open("es")

	if id1 == id2 {
		t.Fatal("expected distinct session IDs")
	}
	if m.Count() != 2 {
		t.Errorf("expected 2 live sessions, got %d", m.Count())
	}

	ctx1.AddEntry("Q", "Q", "conversation", "R")
	if ctx2.Len() != 0 {
		t.Error("contexts must not be shared across sessions")
	}

	if m.Get(id1) != ctx1 {
		t.Error("expected Get to return the opened context")
	}
	if m.Get("unknown") != nil {
		t.Error("expected nil for unknown session")
	}

	m.Close(id1)
	if m.Get(id1) != nil {
		t.Error("expected nil after Close")
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 live session after Close, got %d", m.Count())
	}
}

func TestManager_RapidOpensGetDistinctContexts(t *testing.T) {
	// Sessions opened back to back can land on the same clock tick; each
	// must still get its own ID and context.
	m := NewManager()

	seen := make(map[string]*Context)
	for i := 0; i < 1000; i++ {
		id, ctx := m.Open("en")
		if _, ok := seen[id]; ok {
			t.Fatalf("session ID %q issued twice", id)
		}
		seen[id] = ctx
	}

	if m.Count() != 1000 {
		t.Errorf("expected 1000 live sessions, got %d", m.Count())
	}
}
