// Package tui is a terminal front end for entering a transaction. It renders
// a form.Controller and forwards key presses to it.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cashbook/internal/form"
	"cashbook/internal/models"
	"cashbook/internal/validator"
)

// CategoryLoader fetches the full category list.
type CategoryLoader func(ctx context.Context) ([]models.Category, error)

type field int

const (
	fieldType field = iota
	fieldCategory
	fieldDate
	fieldAmount
	fieldDescription
	fieldCount
)

var fieldNames = [fieldCount]string{
	fieldType:        validator.FieldTransactionType,
	fieldCategory:    validator.FieldCategoryID,
	fieldDate:        validator.FieldTransactionDate,
	fieldAmount:      validator.FieldAmount,
	fieldDescription: validator.FieldDescription,
}

var fieldLabels = [fieldCount]string{
	fieldType:        "Type",
	fieldCategory:    "Category",
	fieldDate:        "Date",
	fieldAmount:      "Amount",
	fieldDescription: "Description",
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "change")),
	Right:  key.NewBinding(key.WithKeys("right", "l", " ")),
	Submit: key.NewBinding(key.WithKeys("enter", "ctrl+s"), key.WithHelp("enter", "save")),
	Reset:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new entry")),
	Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle    = lipgloss.NewStyle().Width(13).Foreground(lipgloss.Color("245"))
	focusStyle    = lipgloss.NewStyle().Width(13).Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
)

type categoriesLoadedMsg struct {
	categories []models.Category
	err        error
}

type submittedMsg struct {
	payload validator.Payload
	err     error
}

// Model is the bubbletea model for the entry form.
type Model struct {
	ctx            context.Context
	form           *form.Controller
	loadCategories CategoryLoader

	inputs  [fieldCount]textinput.Model
	focus   field
	spinner spinner.Model

	loading    bool
	loadErr    error
	submitting bool
	saved      *validator.Payload
	quitting   bool
}

// New creates the entry form model. ctx bounds category loading and
// submission; cancelling it abandons an in-flight submission.
func New(ctx context.Context, ctrl *form.Controller, loader CategoryLoader) Model {
	m := Model{
		ctx:            ctx,
		form:           ctrl,
		loadCategories: loader,
		loading:        loader != nil,
	}

	for _, f := range []field{fieldDate, fieldAmount, fieldDescription} {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		if f == fieldDescription {
			in.CharLimit = validator.DescriptionMax + 20
		}
		m.inputs[f] = in
	}
	m.inputs[fieldDate].Placeholder = "YYYY-MM-DD"
	m.inputs[fieldAmount].Placeholder = "0.00"
	m.inputs[fieldDescription].Placeholder = "What was it for?"
	m.syncInputs()

	s := spinner.New()
	s.Spinner = spinner.Dot
	m.spinner = s
	return m
}

// Init starts loading categories.
func (m Model) Init() tea.Cmd {
	if m.loadCategories == nil {
		return textinput.Blink
	}
	loader, ctx := m.loadCategories, m.ctx
	return tea.Batch(textinput.Blink, m.spinner.Tick, func() tea.Msg {
		cats, err := loader(ctx)
		return categoriesLoadedMsg{categories: cats, err: err}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		_ = m.form.SetCategories(msg.categories)
		return m, nil

	case submittedMsg:
		m.submitting = false
		if msg.err == nil {
			p := msg.payload
			m.saved = &p
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) busy() bool {
	return m.loading || m.submitting || m.form.Disabled()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.submitting || m.form.Disabled() {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Next):
		return m.setFocus((m.focus + 1) % fieldCount), nil
	case key.Matches(msg, keys.Prev):
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount), nil
	case key.Matches(msg, keys.Submit):
		return m.submit()
	case key.Matches(msg, keys.Reset):
		if m.form.State() == form.Success {
			_ = m.form.Reset()
			m.saved = nil
			m.syncInputs()
		}
		return m, nil
	}

	switch m.focus {
	case fieldType:
		if key.Matches(msg, keys.Left, keys.Right) {
			m.toggleType()
		}
		return m, nil
	case fieldCategory:
		switch {
		case key.Matches(msg, keys.Left):
			m.cycleCategory(-1)
		case key.Matches(msg, keys.Right):
			m.cycleCategory(1)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if err := m.form.Set(fieldNames[m.focus], m.inputs[m.focus].Value()); err == nil {
		m.saved = nil
	}
	return m, cmd
}

func (m Model) setFocus(f field) Model {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	if f >= fieldDate {
		m.inputs[f].Focus()
	}
	return m
}

func (m *Model) toggleType() {
	next := models.TransactionTypeExpense
	if models.TransactionType(m.form.Draft().TransactionType) == models.TransactionTypeExpense {
		next = models.TransactionTypeIncome
	}
	if err := m.form.SetTransactionType(next); err == nil {
		m.saved = nil
	}
}

func (m *Model) cycleCategory(dir int) {
	cats := m.form.Categories()
	if len(cats) == 0 {
		return
	}
	idx := selectedIndex(cats, m.form.Draft())
	var next int
	switch {
	case idx < 0 && dir < 0:
		next = len(cats) - 1
	case idx < 0:
		next = 0
	default:
		next = (idx + dir + len(cats)) % len(cats)
	}
	if err := m.form.SetCategoryID(cats[next].ID); err == nil {
		m.saved = nil
	}
}

func selectedIndex(cats []models.Category, draft validator.Input) int {
	for i, c := range cats {
		if fmt.Sprint(c.ID) == string(draft.CategoryID) {
			return i
		}
	}
	return -1
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	ctrl, ctx := m.form, m.ctx
	m.submitting = true
	m.saved = nil
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		p, err := ctrl.Submit(ctx)
		return submittedMsg{payload: p, err: err}
	})
}

// syncInputs copies the controller's draft into the text inputs.
func (m *Model) syncInputs() {
	d := m.form.Draft()
	m.inputs[fieldDate].SetValue(string(d.TransactionDate))
	m.inputs[fieldAmount].SetValue(string(d.Amount))
	m.inputs[fieldDescription].SetValue(string(d.Description))
}

// View renders the form.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	draft := m.form.Draft()
	errs := m.form.FieldErrors()

	var b strings.Builder
	b.WriteString(titleStyle.Render("New transaction"))
	b.WriteString("\n\n")

	for f := fieldType; f < fieldCount; f++ {
		label := labelStyle.Render(fieldLabels[f])
		if f == m.focus {
			label = focusStyle.Render(fieldLabels[f])
		}
		b.WriteString(label)
		b.WriteString(m.renderValue(f, draft))
		b.WriteString("\n")
		if msg, ok := errs[fieldNames[f]]; ok {
			b.WriteString(labelStyle.Render(""))
			b.WriteString(errorStyle.Render(msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("tab next • ←/→ change • enter save • ctrl+n new • esc quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderValue(f field, draft validator.Input) string {
	switch f {
	case fieldType:
		return selectorStyle.Render("< " + string(draft.TransactionType) + " >")
	case fieldCategory:
		if m.loading {
			return mutedStyle.Render("loading…")
		}
		cats := m.form.Categories()
		if idx := selectedIndex(cats, draft); idx >= 0 {
			return selectorStyle.Render("< " + cats[idx].Name + " >")
		}
		if len(cats) == 0 {
			return mutedStyle.Render("(no categories)")
		}
		return mutedStyle.Render("< select >")
	default:
		return m.inputs[f].View()
	}
}

func (m Model) renderStatus() string {
	if m.loadErr != nil {
		return errorStyle.Render("Could not load categories: " + m.loadErr.Error())
	}
	if m.submitting || m.form.Disabled() {
		return m.spinner.View() + " Saving…"
	}

	switch m.form.State() {
	case form.Success:
		if m.saved != nil {
			return successStyle.Render(fmt.Sprintf("Saved %s of %s on %s",
				m.saved.TransactionType, m.saved.Amount.String(), validator.FormatDate(m.saved.TransactionDate)))
		}
		return successStyle.Render("Saved")
	case form.Error:
		err := m.form.Err()
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			return errorStyle.Render("Please fix the highlighted fields")
		}
		if err != nil {
			return errorStyle.Render("Could not save: " + err.Error())
		}
	}
	if errors.Is(m.form.Err(), form.ErrAbandoned) {
		return mutedStyle.Render("Submission abandoned")
	}
	return ""
}
