package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI pushes pipeline updates into a running program.
type TUI struct {
	program *tea.Program
}

func NewTUI(p *tea.Program) *TUI {
	return &TUI{program: p}
}

func (t *TUI) UpdateStage(stage string) {
	t.program.Send(StageMsg(stage))
}

func (t *TUI) ShowReading(text string) {
	t.program.Send(ReadingMsg{Text: text})
}

func (t *TUI) Log(msg string) {
	t.program.Send(LogMsg(msg))
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5E2D79")).
			Padding(0, 1)

	stageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C792EA")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB454"))
)

// AskFunc runs one question through the reader and returns the formatted
// text plus any warnings.
type AskFunc func(question string) (string, []string, error)

type Model struct {
	Title      string
	Stage      string
	Transcript []string
	Input      textinput.Model
	Viewport   viewport.Model
	Spinner    spinner.Model
	Ask        AskFunc
	Waiting    bool
	Quitting   bool
	Ready      bool
	Width      int
	Height     int
}

type LogMsg string
type StageMsg string

// ReadingMsg delivers one finished reading to the transcript.
type ReadingMsg struct {
	Text     string
	Warnings []string
}

func NewModel(title string, ask AskFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the cards..."
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		Title:   title,
		Stage:   "Ready",
		Input:   ti,
		Spinner: sp,
		Ask:     ask,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) askCmd(question string) tea.Cmd {
	ask := m.Ask
	return func() tea.Msg {
		text, warnings, err := ask(question)
		if err != nil {
			return ReadingMsg{Text: "", Warnings: []string{err.Error()}}
		}
		return ReadingMsg{Text: text, Warnings: warnings}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			m.Quitting = true
			return m, tea.Quit
		case msg.Type == tea.KeyEnter && !m.Waiting:
			question := strings.TrimSpace(m.Input.Value())
			if question == "" {
				break
			}
			if question == "/quit" || question == "/exit" {
				m.Quitting = true
				return m, tea.Quit
			}
			m.Transcript = append(m.Transcript, questionStyle.Render("You: ")+question)
			m.refreshViewport()
			m.Input.Reset()
			m.Waiting = true
			cmds = append(cmds, m.askCmd(question), m.Spinner.Tick)
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if !m.Ready {
			m.Viewport = viewport.New(msg.Width, msg.Height-6)
			m.Ready = true
		} else {
			m.Viewport.Width = msg.Width
			m.Viewport.Height = msg.Height - 6
		}
		m.refreshViewport()

	case ReadingMsg:
		m.Waiting = false
		m.Stage = "Ready"
		for _, w := range msg.Warnings {
			m.Transcript = append(m.Transcript, warnStyle.Render(w))
		}
		if msg.Text != "" {
			m.Transcript = append(m.Transcript, "Tara: "+msg.Text, "")
		}
		m.refreshViewport()

	case LogMsg:
		m.Transcript = append(m.Transcript, string(msg))
		m.refreshViewport()

	case StageMsg:
		m.Stage = string(msg)

	case spinner.TickMsg:
		if m.Waiting {
			var cmd tea.Cmd
			m.Spinner, cmd = m.Spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)

	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) refreshViewport() {
	if !m.Ready {
		return
	}
	m.Viewport.SetContent(strings.Join(m.Transcript, "\n"))
	m.Viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.Ready {
		return "\n  Shuffling the deck..."
	}

	header := titleStyle.Render(" " + m.Title + " ")
	stage := stageStyle.Render(fmt.Sprintf(" %s ", m.Stage))
	if m.Waiting {
		stage = m.Spinner.View() + stage
	}

	view := fmt.Sprintf("%s%s\n\n%s\n\n%s",
		header, stage,
		m.Viewport.View(),
		m.Input.View())

	if m.Quitting {
		return view + "\n  The cards rest.\n"
	}

	return view
}
