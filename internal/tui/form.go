// Package tui holds the interactive request form shown by the tui command.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/paydar/paydar/internal/model"
)

var (
	formTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // bright blue
			Padding(1, 0, 1, 2)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dim gray
			Padding(1, 0, 0, 2)

	formCycleHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
)

var kindOptions = []string{model.KindDistribution, model.KindSpot}

// Form is what the user filled in.
type Form struct {
	Request model.Request
	Kind    string // model.KindDistribution or model.KindSpot
}

// Field order: title, company, location, tier, samples, kind.
const formFields = 6

type formModel struct {
	title    textinput.Model
	company  textinput.Model
	location textinput.Model
	samples  textinput.Model
	tierIdx  int // index into model.Tiers()
	kindIdx  int // index into kindOptions
	cursor   int

	err       string
	submitted bool
	result    Form
}

func newFormModel(defaults Form) formModel {
	title := textinput.New()
	title.Placeholder = "Product Manager"
	title.CharLimit = 100
	title.Width = 40
	title.SetValue(defaults.Request.Title)
	title.Focus()

	company := textinput.New()
	company.Placeholder = "Google"
	company.CharLimit = 100
	company.Width = 40
	company.SetValue(defaults.Request.Company)

	location := textinput.New()
	location.Placeholder = "New York, NY"
	location.CharLimit = 100
	location.Width = 40
	location.SetValue(defaults.Request.Location)

	samples := textinput.New()
	samples.Placeholder = "1-100"
	samples.CharLimit = 3
	samples.Width = 10
	if defaults.Request.Samples > 0 {
		samples.SetValue(strconv.Itoa(defaults.Request.Samples))
	}

	tierIdx := 0
	for i, t := range model.Tiers() {
		if t == defaults.Request.Tier {
			tierIdx = i
		}
	}
	kindIdx := 0
	for i, k := range kindOptions {
		if k == defaults.Kind {
			kindIdx = i
		}
	}

	return formModel{
		title:    title,
		company:  company,
		location: location,
		samples:  samples,
		tierIdx:  tierIdx,
		kindIdx:  kindIdx,
	}
}

func (m formModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *formModel) focusCurrent() {
	m.title.Blur()
	m.company.Blur()
	m.location.Blur()
	m.samples.Blur()

	switch m.cursor {
	case 0:
		m.title.Focus()
	case 1:
		m.company.Focus()
	case 2:
		m.location.Focus()
	case 4:
		m.samples.Focus()
	}
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case msg.String() == "ctrl+c", msg.String() == "esc":
			m.submitted = false
			return m, tea.Quit

		case msg.Type == tea.KeyEnter:
			return m.submit()

		case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
			m.cursor = (m.cursor + 1) % formFields
			m.focusCurrent()
			m.err = ""
			return m, nil

		case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
			m.cursor = (m.cursor + formFields - 1) % formFields
			m.focusCurrent()
			m.err = ""
			return m, nil

		case msg.Type == tea.KeyLeft && m.cursor == 3:
			n := len(model.Tiers())
			m.tierIdx = (m.tierIdx + n - 1) % n
			return m, nil

		case msg.Type == tea.KeyRight && m.cursor == 3:
			m.tierIdx = (m.tierIdx + 1) % len(model.Tiers())
			return m, nil

		case msg.Type == tea.KeyLeft && m.cursor == 5,
			msg.Type == tea.KeyRight && m.cursor == 5:
			m.kindIdx = 1 - m.kindIdx
			return m, nil
		}
	}

	// Pass through to the active text input.
	var cmd tea.Cmd
	switch m.cursor {
	case 0:
		m.title, cmd = m.title.Update(msg)
	case 1:
		m.company, cmd = m.company.Update(msg)
	case 2:
		m.location, cmd = m.location.Update(msg)
	case 4:
		m.samples, cmd = m.samples.Update(msg)
	}
	return m, cmd
}

func (m formModel) submit() (tea.Model, tea.Cmd) {
	samples, err := strconv.Atoi(strings.TrimSpace(m.samples.Value()))
	if err != nil {
		m.err = "samples must be a number"
		return m, nil
	}

	req := model.Request{
		Title:    strings.TrimSpace(m.title.Value()),
		Company:  strings.TrimSpace(m.company.Value()),
		Location: strings.TrimSpace(m.location.Value()),
		Tier:     model.Tiers()[m.tierIdx],
		Samples:  samples,
	}
	if err := req.Validate(); err != nil {
		m.err = err.Error()
		return m, nil
	}

	m.result = Form{Request: req, Kind: kindOptions[m.kindIdx]}
	m.submitted = true
	return m, tea.Quit
}

func (m formModel) View() string {
	var b strings.Builder

	b.WriteString(formTitleStyle.Render("Paydar: salary estimate") + "\n")

	fields := []struct {
		label string
		view  string
	}{
		{"Title:    ", m.title.View()},
		{"Company:  ", m.company.View()},
		{"Location: ", m.location.View()},
		{"Tier:     ", m.tierView()},
		{"Samples:  ", m.samples.View()},
		{"Mode:     ", m.kindView()},
	}

	for i, f := range fields {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(cursor + f.label + f.view + "\n")
	}

	if m.err != "" {
		b.WriteString("  " + formErrorStyle.Render(m.err) + "\n")
	}
	b.WriteString(formHintStyle.Render("tab: fields   enter: run   esc: cancel") + "\n")
	return b.String()
}

func (m formModel) tierView() string {
	var parts []string
	for i, t := range model.Tiers() {
		if i == m.tierIdx {
			parts = append(parts, "["+string(t)+"]")
		} else {
			parts = append(parts, " "+string(t)+" ")
		}
	}
	label := strings.Join(parts, " ")
	if m.cursor == 3 {
		return label + formCycleHintStyle.Render("  ←/→")
	}
	return label
}

func (m formModel) kindView() string {
	var parts []string
	for i, k := range kindOptions {
		if i == m.kindIdx {
			parts = append(parts, "["+k+"]")
		} else {
			parts = append(parts, " "+k+" ")
		}
	}
	label := strings.Join(parts, " ")
	if m.cursor == 5 {
		return label + formCycleHintStyle.Render("  ←/→")
	}
	return label
}

// RunForm shows the interactive request form. The returned bool reports
// whether the user submitted (false means they cancelled).
func RunForm(defaults Form) (Form, bool, error) {
	p := tea.NewProgram(newFormModel(defaults))
	result, err := p.Run()
	if err != nil {
		return Form{}, false, fmt.Errorf("run form: %w", err)
	}

	final := result.(formModel)
	if !final.submitted {
		return Form{}, false, nil
	}
	return final.result, true, nil
}
