package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmPrompter asks yes/no questions through a minimal bubbletea
// program. It satisfies the executor's Prompter capability.
type ConfirmPrompter struct{}

// NewConfirmPrompter creates the interactive prompter.
func NewConfirmPrompter() *ConfirmPrompter {
	return &ConfirmPrompter{}
}

// Confirm renders the question and waits for y/n. Declining, escape, and
// ctrl+c all answer no; the caller treats cancellation as a neutral
// outcome, never an error.
func (p *ConfirmPrompter) Confirm(question string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question}).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	return m.accepted, nil
}

type confirmModel struct {
	question string
	accepted bool
	done     bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		m.accepted = true
		m.done = true
		return m, tea.Quit
	case "n", "N", "enter", "esc", "ctrl+c":
		m.accepted = false
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		answer := "no"
		if m.accepted {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", m.question, mutedStyle.Render(answer))
	}
	return fmt.Sprintf("%s %s ", m.question, mutedStyle.Render("[y/N]"))
}
