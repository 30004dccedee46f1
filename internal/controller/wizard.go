package controller

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/deltadevsde/shard/internal/model"
)

var (
	wizardTitleStyle = lipgloss.NewStyle().Bold(true)
	wizardHintStyle  = lipgloss.NewStyle().Faint(true)
	wizardFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// RunFieldWizard interactively collects (field name, field type) pairs for
// a new transaction type. Submitting an empty field name finishes entry;
// an empty type falls back to defaultType.
func RunFieldWizard(in io.Reader, out io.Writer, defaultType string) ([]m.FieldSpec, error) {
	program := tea.NewProgram(newFieldWizardModel(defaultType), tea.WithInput(in), tea.WithOutput(out))

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("interactive field entry failed: %w", err)
	}

	model, ok := final.(fieldWizardModel)
	if !ok || model.cancelled {
		return nil, fmt.Errorf("interactive field entry cancelled")
	}

	return model.fields, nil
}

type wizardStep int

const (
	stepFieldName wizardStep = iota
	stepFieldType
)

type fieldWizardModel struct {
	input       textinput.Model
	step        wizardStep
	defaultType string
	pendingName string
	fields      []m.FieldSpec
	cancelled   bool
}

func newFieldWizardModel(defaultType string) fieldWizardModel {
	input := textinput.New()
	input.Placeholder = "field name (empty to finish)"
	input.CharLimit = 64
	input.Focus()

	return fieldWizardModel{input: input, defaultType: defaultType}
}

func (w fieldWizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (w fieldWizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC:
			w.cancelled = true

			return w, tea.Quit
		case tea.KeyEsc:
			return w, tea.Quit
		case tea.KeyEnter:
			return w.submit()
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)

	return w, cmd
}

func (w fieldWizardModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(w.input.Value())

	switch w.step {
	case stepFieldName:
		if value == "" {
			return w, tea.Quit
		}

		w.pendingName = value
		w.step = stepFieldType
		w.input.SetValue("")
		w.input.Placeholder = "field type (empty for " + w.defaultType + ")"
	case stepFieldType:
		if value == "" {
			value = w.defaultType
		}

		w.fields = append(w.fields, m.FieldSpec{Name: w.pendingName, Type: value})
		w.pendingName = ""
		w.step = stepFieldName
		w.input.SetValue("")
		w.input.Placeholder = "field name (empty to finish)"
	}

	return w, nil
}

func (w fieldWizardModel) View() string {
	var b strings.Builder

	b.WriteString(wizardTitleStyle.Render("Transaction fields"))
	b.WriteByte('\n')

	for _, field := range w.fields {
		b.WriteString("  " + wizardFieldStyle.Render(field.Name+": "+field.Type) + "\n")
	}

	if w.step == stepFieldType {
		b.WriteString("  " + wizardFieldStyle.Render(w.pendingName+": ") + "\n")
	}

	b.WriteString(w.input.View())
	b.WriteByte('\n')
	b.WriteString(wizardHintStyle.Render("enter to submit, empty name to finish, esc to stop"))
	b.WriteByte('\n')

	return b.String()
}
