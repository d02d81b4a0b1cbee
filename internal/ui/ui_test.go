package ui

import (
	"testing"
)

func TestSilentUI(t *testing.T) {
	u := SilentUI{}
	// Should not panic
	u.UpdateStage("generating")
	u.ShowReading("The Tower signals upheaval.")
	u.Log("test message")
	u.Log("")
}

func TestUI_ImplementsInterface(t *testing.T) {
	var _ UI = SilentUI{}
	var _ UI = &SilentUI{}
	var _ UI = ConsoleUI{}
}

// MockUI implements UI interface for testing
type MockUI struct {
	Stages   []string
	Readings []string
	Logs     []string
}

func (m *MockUI) UpdateStage(stage string) {
	m.Stages = append(m.Stages, stage)
}

func (m *MockUI) ShowReading(text string) {
	m.Readings = append(m.Readings, text)
}

func (m *MockUI) Log(msg string) {
	m.Logs = append(m.Logs, msg)
}

func TestMockUI_UpdateStage(t *testing.T) {
	u := &MockUI{}

	u.UpdateStage("translating")
	u.UpdateStage("classifying")

	if len(u.Stages) != 2 {
		t.Errorf("expected 2 stage updates, got %d", len(u.Stages))
	}
	if u.Stages[0] != "translating" {
		t.Errorf("expected 'translating', got %q", u.Stages[0])
	}
	if u.Stages[1] != "classifying" {
		t.Errorf("expected 'classifying', got %q", u.Stages[1])
	}
}

func TestMockUI_ShowReading(t *testing.T) {
	u := &MockUI{}

	u.ShowReading("reading 1")
	u.ShowReading("reading 2")

	if len(u.Readings) != 2 {
		t.Errorf("expected 2 readings, got %d", len(u.Readings))
	}
	if u.Readings[0] != "reading 1" {
		t.Errorf("expected 'reading 1', got %q", u.Readings[0])
	}
}

func TestMockUI_ImplementsInterface(t *testing.T) {
	var _ UI = &MockUI{}
}

func TestUI_InterfaceMethods(t *testing.T) {
	// The interface can be used polymorphically
	uis := []UI{
		SilentUI{},
		&MockUI{},
	}

	for _, u := range uis {
		u.UpdateStage("formatting")
		u.ShowReading("test")
		u.Log("test")
	}
}
