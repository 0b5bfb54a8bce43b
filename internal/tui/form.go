// Package tui implements the interactive add-expense form. The form is the
// host event loop for the suggestion controller: debounce timers become
// tea.Tick messages and inference responses come back as sequence-stamped
// messages, so stale cycles are discarded exactly as the controller demands.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/finbrains/finbrains/internal/common"
	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/recurrence"
	"github.com/finbrains/finbrains/internal/suggest"
)

// TransactionCreator submits the finished draft.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, txn model.Transaction) (*model.Transaction, error)
}

// Categorizer requests an advisory category suggestion.
type Categorizer interface {
	Categorize(ctx context.Context, req suggest.Request) (suggest.Suggestion, error)
}

type focusField int

const (
	focusDescription focusField = iota
	focusAmount
	focusCategory
	focusKind
	focusDate
	focusRecurring
	focusFrequency
	focusInterval
	focusStartDate
	focusEndDate
	focusCount
)

var frequencies = []model.Frequency{
	model.FrequencyDaily,
	model.FrequencyWeekly,
	model.FrequencyMonthly,
	model.FrequencyQuarterly,
	model.FrequencyYearly,
	model.FrequencyCustom,
}

// Messages delivered to the form's event loop.
type (
	debounceMsg   struct{ seq int }
	suggestionMsg struct {
		err error
		s   suggest.Suggestion
		seq int
	}
	submitResultMsg struct {
		created *model.Transaction
		err     error
	}
)

// Form is the bubbletea model for adding one expense.
type Form struct {
	creator     TransactionCreator
	categorizer Categorizer
	controller  *suggest.Controller
	categories  []model.Category

	description textinput.Model
	amount      textinput.Model
	date        textinput.Model
	interval    textinput.Model
	startDate   textinput.Model
	endDate     textinput.Model

	focus       focusField
	categoryIdx int // -1 = none selected
	freqIdx     int
	kind        model.TransactionKind
	recurring   bool

	errMsg   string
	created  *model.Transaction
	quitting bool
}

// NewForm builds the add-expense form. categories resolve suggestion names;
// keywords are forwarded to the inference service.
func NewForm(creator TransactionCreator, categorizer Categorizer, categories []model.Category, keywords []model.CategoryKeywords) *Form {
	controller := suggest.NewController(suggest.Config{})
	controller.SetCategories(categories, keywords)

	description := textinput.New()
	description.Placeholder = "Description"
	description.Focus()

	amount := textinput.New()
	amount.Placeholder = "Amount"

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.SetValue(time.Now().Format(recurrence.DateLayout))

	interval := textinput.New()
	interval.Placeholder = "Interval in days"

	startDate := textinput.New()
	startDate.Placeholder = "Start date (YYYY-MM-DD)"

	endDate := textinput.New()
	endDate.Placeholder = "End date (optional)"

	return &Form{
		creator:     creator,
		categorizer: categorizer,
		controller:  controller,
		categories:  categories,
		description: description,
		amount:      amount,
		date:        date,
		interval:    interval,
		startDate:   startDate,
		endDate:     endDate,
		categoryIdx: -1,
		kind:        model.KindExpense,
	}
}

// Created returns the transaction confirmed by the backend, if the form was
// submitted successfully.
func (m *Form) Created() *model.Transaction { return m.created }

// Init implements tea.Model.
func (m *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case debounceMsg:
		return m, m.runCommands(m.controller.TimerFired(msg.seq))

	case suggestionMsg:
		m.controller.HandleResult(msg.seq, msg.s, msg.err)
		if m.controller.State() == suggest.StateApplied {
			m.selectCategoryByID(m.controller.AppliedCategoryID())
		}
		return m, nil

	case submitResultMsg:
		if msg.err != nil {
			common.LogError(msg.err, "failed to save transaction", nil)
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.created = msg.created
		m.controller.Reset()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Form) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.controller.Reset()
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab", "enter":
		if msg.String() == "shift+tab" {
			m.setFocus((m.focus + focusCount - 1) % focusCount)
		} else {
			m.setFocus((m.focus + 1) % focusCount)
		}
		return m, nil

	case "ctrl+s":
		return m, m.submit()

	case "ctrl+a":
		// Explicit apply of an informational suggestion.
		if id := m.controller.AppliedCategoryID(); id != "" {
			m.selectCategoryByID(id)
			m.controller.Touch()
		}
		return m, nil
	}

	switch m.focus {
	case focusCategory:
		if m.cycle(msg, &m.categoryIdx, len(m.categories)) {
			m.controller.Touch()
		}
		return m, nil

	case focusKind:
		if isCycleKey(msg) {
			if m.kind == model.KindExpense {
				m.kind = model.KindIncome
			} else {
				m.kind = model.KindExpense
			}
			return m, m.feedController()
		}
		return m, nil

	case focusRecurring:
		if isCycleKey(msg) || msg.String() == " " {
			m.recurring = !m.recurring
		}
		return m, nil

	case focusFrequency:
		m.cycle(msg, &m.freqIdx, len(frequencies))
		return m, nil

	case focusDescription:
		var cmd tea.Cmd
		m.description, cmd = m.description.Update(msg)
		return m, tea.Batch(cmd, m.feedController())

	case focusAmount:
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		return m, tea.Batch(cmd, m.feedController())

	case focusDate:
		var cmd tea.Cmd
		m.date, cmd = m.date.Update(msg)
		return m, cmd

	case focusInterval:
		var cmd tea.Cmd
		m.interval, cmd = m.interval.Update(msg)
		return m, cmd

	case focusStartDate:
		var cmd tea.Cmd
		m.startDate, cmd = m.startDate.Update(msg)
		return m, cmd

	case focusEndDate:
		var cmd tea.Cmd
		m.endDate, cmd = m.endDate.Update(msg)
		return m, cmd
	}

	return m, nil
}

// feedController forwards the draft's current description/amount/kind and
// converts the controller's commands into tea commands.
func (m *Form) feedController() tea.Cmd {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.amount.Value()), 64)
	return m.runCommands(m.controller.Input(m.description.Value(), amount, m.kind))
}

func (m *Form) runCommands(cmds []suggest.Command) tea.Cmd {
	var out []tea.Cmd
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case suggest.StartTimer:
			seq := cmd.Seq
			out = append(out, tea.Tick(cmd.After, func(time.Time) tea.Msg {
				return debounceMsg{seq: seq}
			}))
		case suggest.IssueRequest:
			seq, req := cmd.Seq, cmd.Request
			categorizer := m.categorizer
			out = append(out, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				s, err := categorizer.Categorize(ctx, req)
				return suggestionMsg{seq: seq, s: s, err: err}
			})
		}
	}
	if len(out) == 0 {
		return nil
	}
	return tea.Batch(out...)
}

func (m *Form) submit() tea.Cmd {
	txn := m.draft()
	creator := m.creator
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		created, err := creator.CreateTransaction(ctx, txn)
		return submitResultMsg{created: created, err: err}
	}
}

func (m *Form) draft() model.Transaction {
	amount, _ := strconv.ParseFloat(strings.TrimSpace(m.amount.Value()), 64)
	txn := model.Transaction{
		Amount:      amount,
		Description: strings.TrimSpace(m.description.Value()),
		Kind:        m.kind,
		Date:        strings.TrimSpace(m.date.Value()),
	}
	if m.categoryIdx >= 0 && m.categoryIdx < len(m.categories) {
		txn.CategoryID = m.categories[m.categoryIdx].ID
		txn.CategoryName = m.categories[m.categoryIdx].Name
	}
	if m.recurring {
		days, _ := strconv.Atoi(strings.TrimSpace(m.interval.Value()))
		txn.Recurrence = &model.Recurrence{
			Enabled:      true,
			Frequency:    frequencies[m.freqIdx],
			StartDate:    strings.TrimSpace(m.startDate.Value()),
			EndDate:      strings.TrimSpace(m.endDate.Value()),
			IntervalDays: days,
		}
	}
	return txn
}

func (m *Form) setFocus(f focusField) {
	m.focus = f
	for _, input := range []*textinput.Model{&m.description, &m.amount, &m.date, &m.interval, &m.startDate, &m.endDate} {
		input.Blur()
	}
	switch f {
	case focusDescription:
		m.description.Focus()
	case focusAmount:
		m.amount.Focus()
	case focusDate:
		m.date.Focus()
	case focusInterval:
		m.interval.Focus()
	case focusStartDate:
		m.startDate.Focus()
	case focusEndDate:
		m.endDate.Focus()
	}
}

// cycle moves idx with left/right or up/down keys; reports whether it moved.
func (m *Form) cycle(msg tea.KeyMsg, idx *int, n int) bool {
	if n == 0 {
		return false
	}
	switch msg.String() {
	case "right", "down", " ":
		*idx = (*idx + 1) % n
		return true
	case "left", "up":
		*idx = (*idx + n - 1) % n
		return true
	}
	return false
}

func isCycleKey(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "left", "right", "up", "down":
		return true
	}
	return false
}

func (m *Form) selectCategoryByID(id string) {
	for i, cat := range m.categories {
		if cat.ID == id {
			m.categoryIdx = i
			return
		}
	}
}

var (
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Width(12)
	focusedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#42A5F5")).Bold(true)
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#42A5F5")).Border(lipgloss.RoundedBorder()).Padding(0, 1)
	formErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6767"))
)

// View implements tea.Model.
func (m *Form) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(focusedStyle.Render("Add Expense") + "\n\n")

	if s := m.controller.Suggestion(); s != nil {
		banner := fmt.Sprintf("Suggested: %s (confidence %.0f%%)", s.Name, s.Confidence*100)
		if s.Reason != "" {
			banner += ": " + s.Reason
		}
		if m.controller.State() != suggest.StateApplied {
			banner += "  [ctrl+a to apply]"
		}
		b.WriteString(bannerStyle.Render(banner) + "\n\n")
	}

	b.WriteString(m.row(focusDescription, "Description", m.description.View()))
	b.WriteString(m.row(focusAmount, "Amount", m.amount.View()))
	b.WriteString(m.row(focusCategory, "Category", m.categoryLabel()))
	b.WriteString(m.row(focusKind, "Type", string(m.kind)))
	b.WriteString(m.row(focusDate, "Date", m.date.View()))
	b.WriteString(m.row(focusRecurring, "Recurring", onOff(m.recurring)))
	if m.recurring {
		b.WriteString(m.row(focusFrequency, "Frequency", string(frequencies[m.freqIdx])))
		if frequencies[m.freqIdx] == model.FrequencyCustom {
			b.WriteString(m.row(focusInterval, "Interval", m.interval.View()))
		}
		b.WriteString(m.row(focusStartDate, "Start", m.startDate.View()))
		b.WriteString(m.row(focusEndDate, "End", m.endDate.View()))
	}

	if m.errMsg != "" {
		b.WriteString("\n" + formErrorStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("tab: next · ctrl+s: save · esc: cancel") + "\n")
	return b.String()
}

func (m *Form) row(f focusField, label, value string) string {
	marker := "  "
	if m.focus == f {
		marker = focusedStyle.Render("> ")
	}
	return fmt.Sprintf("%s%s %s\n", marker, labelStyle.Render(label), value)
}

func (m *Form) categoryLabel() string {
	if m.categoryIdx < 0 || m.categoryIdx >= len(m.categories) {
		return "(select with ←/→)"
	}
	return m.categories[m.categoryIdx].Name
}

func onOff(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
