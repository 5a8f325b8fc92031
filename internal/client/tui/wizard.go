// Package tui implements the three-step survey wizard as a bubbletea model.
package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifecheck/survey/internal/models"
	"github.com/lifecheck/survey/internal/models/dto"
)

// SubmitFunc performs the actual submission once the wizard completes.
type SubmitFunc func(dto.SubmitRequest) (models.SurveyResponse, error)

// submitDelay is the fixed pause shown before the network call fires,
// matching the original form's artificial submission delay.
const submitDelay = 800 * time.Millisecond

var (
	exerciseOptions = []string{
		"Daily",
		"2 times a week",
		"3 times a week",
		"4 times a week",
		"5 times a week",
		"6 times a week",
	}
	dietOptions   = []string{"Vegetarian", "Non-Vegetarian"}
	genderOptions = []string{"male", "female"}
	yesNoOptions  = []string{"no", "yes"}

	stepTitles = []string{
		"Demographic Information",
		"Health Information",
		"Financial Information",
	}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	stepStyle    = lipgloss.NewStyle().Faint(true)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
)

// choice is an enumerated field cycled with the arrow keys.
type choice struct {
	options []string
	index   int
	chosen  bool
}

func (c *choice) cycle(delta int) {
	if !c.chosen {
		c.chosen = true
		return
	}
	c.index = (c.index + delta + len(c.options)) % len(c.options)
}

func (c *choice) value() string {
	return c.options[c.index]
}

func (c *choice) yes() bool {
	return c.value() == "yes"
}

// field is one focusable entry on the current step: either a text input or
// a choice.
type field struct {
	label    string
	input    *textinput.Model
	choice   *choice
	validate func(string) string
	required string // choice fields: error shown when nothing was selected
}

func (f field) validateNow() string {
	if f.input != nil {
		if f.validate != nil {
			return f.validate(f.input.Value())
		}
		return ""
	}
	if !f.choice.chosen && f.required != "" {
		return f.required
	}
	return ""
}

// submitStartMsg fires after the artificial delay; submitDoneMsg carries
// the request outcome back into the update loop.
type submitStartMsg struct{}

type submitDoneMsg struct {
	resp models.SurveyResponse
	err  error
}

// Model is the wizard state machine: step 0..2, Next gated on validation,
// Previous always allowed and lossless, submission single-flight.
type Model struct {
	submit SubmitFunc

	step  int
	focus int

	name, age, location     textinput.Model
	gender                  choice
	conditions, medications textinput.Model
	exercise, diet, smoking choice
	income, savings         textinput.Model
	insurance               choice

	errs       map[string]string
	submitting bool
	spinner    spinner.Model

	// Outcome fields read by the caller after the program exits.
	Done      bool
	Aborted   bool
	Result    models.SurveyResponse
	SubmitErr string
}

// NewWizard builds a wizard that calls submit when the final step passes
// validation.
func NewWizard(submit SubmitFunc) Model {
	text := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}

	m := Model{
		submit:      submit,
		name:        text("Jane Doe", 50),
		age:         text("30", 3),
		location:    text("New York", 200),
		conditions:  text("comma-separated, empty for none", 500),
		medications: text("comma-separated, empty for none", 500),
		income:      text("50000", 20),
		savings:     text("10000", 20),
		gender:      choice{options: genderOptions},
		exercise:    choice{options: exerciseOptions},
		diet:        choice{options: dietOptions},
		// Booleans default to "no" like the original form's unchecked boxes.
		smoking:   choice{options: yesNoOptions, chosen: true},
		insurance: choice{options: yesNoOptions, chosen: true},
		errs:      make(map[string]string),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.name.Focus()
	return m
}

func (m *Model) fields() []field {
	switch m.step {
	case 0:
		return []field{
			{label: "Name", input: &m.name, validate: validateName},
			{label: "Age", input: &m.age, validate: validateAge},
			{label: "Gender", choice: &m.gender, required: "Please select a valid gender"},
			{label: "Location", input: &m.location, validate: validateLocation},
		}
	case 1:
		return []field{
			{label: "Current conditions", input: &m.conditions},
			{label: "Medications", input: &m.medications},
			{label: "Exercise frequency", choice: &m.exercise, required: "Please select exercise frequency"},
			{label: "Diet", choice: &m.diet, required: "Please select diet type"},
			{label: "Smoking", choice: &m.smoking},
		}
	default:
		return []field{
			{label: "Annual income", input: &m.income, validate: validateIncome},
			{label: "Savings", input: &m.savings, validate: validateSavings},
			{label: "Insurance", choice: &m.insurance},
		}
	}
}

func (m *Model) setFocus(index int) tea.Cmd {
	fs := m.fields()
	if index < 0 {
		index = 0
	}
	if index > len(fs)-1 {
		index = len(fs) - 1
	}
	m.focus = index

	var cmd tea.Cmd
	for i, f := range fs {
		if f.input == nil {
			continue
		}
		if i == index {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	return cmd
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update drives the step machine.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submitStartMsg:
		return m, m.performSubmit()

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.SubmitErr = msg.err.Error()
			return m, nil
		}
		m.Done = true
		m.Result = msg.resp
		return m, tea.Quit

	case tea.KeyMsg:
		if m.submitting {
			// Submit is single-flight; ignore input until it resolves.
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c":
			m.Aborted = true
			return m, tea.Quit
		case "esc":
			if m.step > 0 {
				m.step--
				return m, m.setFocus(0)
			}
			m.Aborted = true
			return m, tea.Quit
		case "enter":
			return m.advance()
		case "tab", "down":
			return m, m.setFocus(m.focus + 1)
		case "shift+tab", "up":
			return m, m.setFocus(m.focus - 1)
		case "left", "right":
			f := m.fields()[m.focus]
			if f.choice != nil {
				delta := 1
				if msg.String() == "left" {
					delta = -1
				}
				f.choice.cycle(delta)
				delete(m.errs, f.label)
				return m, nil
			}
		}
	}

	f := m.fields()[m.focus]
	if f.input != nil {
		var cmd tea.Cmd
		*f.input, cmd = f.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// advance moves focus forward; on the last field it validates the step and
// either moves to the next step or kicks off the submission.
func (m Model) advance() (tea.Model, tea.Cmd) {
	fs := m.fields()

	if m.focus < len(fs)-1 {
		m.recordError(fs[m.focus])
		return m, m.setFocus(m.focus + 1)
	}

	valid := true
	for _, f := range fs {
		if m.recordError(f) {
			valid = false
		}
	}
	if !valid {
		return m, nil
	}

	if m.step < len(stepTitles)-1 {
		m.step++
		return m, m.setFocus(0)
	}

	m.submitting = true
	m.SubmitErr = ""
	return m, tea.Batch(
		m.spinner.Tick,
		tea.Tick(submitDelay, func(time.Time) tea.Msg { return submitStartMsg{} }),
	)
}

// recordError validates one field, updating the error map, and reports
// whether the field is invalid.
func (m *Model) recordError(f field) bool {
	if msg := f.validateNow(); msg != "" {
		m.errs[f.label] = msg
		return true
	}
	delete(m.errs, f.label)
	return false
}

func (m *Model) performSubmit() tea.Cmd {
	req := m.request()
	submit := m.submit
	return func() tea.Msg {
		resp, err := submit(req)
		return submitDoneMsg{resp: resp, err: err}
	}
}

// request assembles the three blobs from the collected fields. The typed
// section structs are encoded here; past this point the sections are plain
// JSON documents.
func (m *Model) request() dto.SubmitRequest {
	age, _ := strconv.Atoi(strings.TrimSpace(m.age.Value()))
	income, _ := strconv.ParseFloat(strings.TrimSpace(m.income.Value()), 64)
	savings, _ := strconv.ParseFloat(strings.TrimSpace(m.savings.Value()), 64)

	return dto.SubmitRequest{
		Demographic: rawJSON(models.Demographic{
			Name:     strings.TrimSpace(m.name.Value()),
			Age:      age,
			Gender:   m.gender.value(),
			Location: strings.TrimSpace(m.location.Value()),
		}),
		Health: rawJSON(models.Health{
			CurrentConditions: parseList(m.conditions.Value()),
			Medications:       parseList(m.medications.Value()),
			Lifestyle: models.Lifestyle{
				Exercise: m.exercise.value(),
				Diet:     m.diet.value(),
				Smoking:  m.smoking.yes(),
			},
		}),
		Financial: rawJSON(models.Financial{
			Income:    income,
			Savings:   savings,
			Insurance: m.insurance.yes(),
		}),
	}
}

func rawJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// View renders the current step.
func (m Model) View() string {
	if m.Done {
		return fmt.Sprintf("Survey submitted. Response id: %s\n", m.Result.ResponseID)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Health & Financial Survey"))
	b.WriteString("\n")
	b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d of %d: %s", m.step+1, len(stepTitles), stepTitles[m.step])))
	b.WriteString("\n\n")

	for i, f := range m.fields() {
		marker := "  "
		label := f.label
		if i == m.focus {
			marker = focusedStyle.Render("> ")
			label = focusedStyle.Render(f.label)
		}
		b.WriteString(marker + label + ": ")
		if f.input != nil {
			b.WriteString(f.input.View())
		} else if f.choice.chosen {
			b.WriteString("◂ " + f.choice.value() + " ▸")
		} else {
			b.WriteString(helpStyle.Render("←/→ to select"))
		}
		b.WriteString("\n")
		if msg, ok := m.errs[f.label]; ok {
			b.WriteString("    " + errorStyle.Render(msg) + "\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.submitting:
		b.WriteString(m.spinner.View() + " Submitting...\n")
	case m.SubmitErr != "":
		b.WriteString(errorStyle.Render(m.SubmitErr) + "\n")
	}

	help := "enter: next • tab/shift+tab: move • esc: back • ctrl+c: quit"
	if m.step == len(stepTitles)-1 {
		help = "enter: submit • tab/shift+tab: move • esc: back • ctrl+c: quit"
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
	return b.String()
}
