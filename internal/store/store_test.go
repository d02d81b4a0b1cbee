package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSQLiteStore(t *testing.T) {
	tmpDir, _ := os.MkdirTemp("", "store-test-*")
	defer os.RemoveAll(tmpDir)

	s, err := NewSQLiteStore(filepath.Join(tmpDir, "tarotara.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	t.Run("Profiles", func(t *testing.T) {
		p := &Profile{
			ID:       "p1",
			Name:     "Asha",
			DOB:      "12-08-1994",
			Mood:     "curious",
			Language: "en",
		}

		if err := s.SaveProfile(p); err != nil {
			t.Fatalf("SaveProfile failed: %v", err)
		}

		got, err := s.GetProfile("p1")
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if got.Name != "Asha" {
			t.Errorf("expected name 'Asha', got %q", got.Name)
		}

		p.Mood = "hopeful"
		if err := s.SaveProfile(p); err != nil {
			t.Fatalf("SaveProfile upsert failed: %v", err)
		}
		updated, _ := s.GetProfile("p1")
		if updated.Mood != "hopeful" {
			t.Errorf("expected mood 'hopeful', got %q", updated.Mood)
		}

		if _, err := s.GetProfile("non-existent"); err == nil {
			t.Error("expected error for non-existent profile")
		}
	})

	t.Run("Readings", func(t *testing.T) {
		r := &Reading{
			ID:        "r1",
			SessionID: "s1",
			Question:  "What does the Tower mean?",
			Intent:    "conversation",
			Text:      "Sudden upheaval.",
		}

		if err := s.SaveReading(r); err != nil {
			t.Fatalf("SaveReading failed: %v", err)
		}

		list, err := s.ListReadings("s1")
		if err != nil {
			t.Fatalf("ListReadings failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("expected 1 reading, got %d", len(list))
		}
		if list[0].Text != "Sudden upheaval." {
			t.Errorf("unexpected reading text: %q", list[0].Text)
		}

		empty, _ := s.ListReadings("unknown")
		if len(empty) != 0 {
			t.Errorf("expected no readings for unknown session, got %d", len(empty))
		}
	})

	t.Run("Config", func(t *testing.T) {
		if err := s.SetConfig("openai.api_key", "sk-test"); err != nil {
			t.Fatalf("SetConfig failed: %v", err)
		}

		val, err := s.GetConfig("openai.api_key")
		if err != nil {
			t.Fatalf("GetConfig failed: %v", err)
		}
		if val != "sk-test" {
			t.Errorf("expected 'sk-test', got %q", val)
		}

		val2, _ := s.GetConfig("unknown")
		if val2 != "" {
			t.Errorf("expected empty string for unknown config, got %q", val2)
		}
	})

	t.Run("Chunks", func(t *testing.T) {
		if err := s.AddChunk("The Tower: sudden upheaval and revelation.", "tower.md", []float32{1, 0, 0}); err != nil {
			t.Fatalf("AddChunk failed: %v", err)
		}
		if err := s.AddChunk("The Star: hope and renewal.", "star.md", []float32{0, 1, 0}); err != nil {
			t.Fatalf("AddChunk failed: %v", err)
		}
		if err := s.AddChunk("The Moon: illusion and intuition.", "moon.md", []float32{0.9, 0.1, 0}); err != nil {
			t.Fatalf("AddChunk failed: %v", err)
		}

		n, err := s.CountChunks()
		if err != nil {
			t.Fatalf("CountChunks failed: %v", err)
		}
		if n != 3 {
			t.Fatalf("expected 3 chunks, got %d", n)
		}

		results, err := s.SearchChunks([]float32{1, 0, 0}, 2)
		if err != nil {
			t.Fatalf("SearchChunks failed: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Source != "tower.md" {
			t.Errorf("expected nearest chunk first, got %q", results[0].Source)
		}
		if results[1].Source != "moon.md" {
			t.Errorf("expected second-nearest chunk, got %q", results[1].Source)
		}
		if results[0].Similarity < results[1].Similarity {
			t.Error("expected results ordered by descending similarity")
		}
	})
}
