package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// WizardAnswers carries the raw values collected by the init wizard.
type WizardAnswers struct {
	ProjectName    string
	AngularVersion string
	NodeVersion    string
	PackageManager string
	GlobalTools    []string
	Extensions     []string
	Cancelled      bool
}

type wizardField struct {
	label       string
	placeholder string
}

var wizardFields = []wizardField{
	{"Project name", "storefront"},
	{"Angular version (blank to skip)", "17.3.0"},
	{"Node version (blank for the Angular default)", "20.11.1"},
	{"Package manager", "npm"},
	{"Global tools, comma separated (blank to skip)", "@angular/cli@17.3.0, typescript"},
	{"VS Code extensions, comma separated (blank to skip)", "angular.ng-template"},
}

// RunWizard walks the user through the manifest fields and returns the
// collected answers. Escape or ctrl+c cancels; the caller treats a
// cancelled wizard as a neutral outcome.
func RunWizard() (WizardAnswers, error) {
	final, err := tea.NewProgram(newWizardModel()).Run()
	if err != nil {
		return WizardAnswers{}, err
	}

	m, ok := final.(wizardModel)
	if !ok || m.cancelled {
		return WizardAnswers{Cancelled: true}, nil
	}

	return WizardAnswers{
		ProjectName:    m.value(0),
		AngularVersion: m.value(1),
		NodeVersion:    m.value(2),
		PackageManager: m.value(3),
		GlobalTools:    splitList(m.value(4)),
		Extensions:     splitList(m.value(5)),
	}, nil
}

type wizardModel struct {
	inputs    []textinput.Model
	focus     int
	cancelled bool
	done      bool
}

func newWizardModel() wizardModel {
	inputs := make([]textinput.Model, len(wizardFields))
	for i, field := range wizardFields {
		in := textinput.New()
		in.Placeholder = field.placeholder
		in.CharLimit = 200
		inputs[i] = in
	}
	inputs[0].Focus()
	return wizardModel{inputs: inputs}
}

func (m wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.done = true
				return m, tea.Quit
			}
			m.inputs[m.focus].Blur()
			m.focus++
			return m, m.inputs[m.focus].Focus()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m wizardModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var sections []string
	sections = append(sections, titleStyle.Render("devsync init"))
	for i := 0; i <= m.focus && i < len(m.inputs); i++ {
		sections = append(sections, sectionStyle.Render(wizardFields[i].label))
		sections = append(sections, m.inputs[i].View())
	}
	sections = append(sections, mutedStyle.Render("enter to continue • esc to cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m wizardModel) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
