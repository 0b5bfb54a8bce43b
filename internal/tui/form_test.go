package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/suggest"
)

type fakeCategorizer struct {
	reply suggest.Suggestion
	err   error
	calls int
	last  suggest.Request
}

func (f *fakeCategorizer) Categorize(_ context.Context, req suggest.Request) (suggest.Suggestion, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

type fakeCreator struct {
	created *model.Transaction
	err     error
	last    model.Transaction
}

func (f *fakeCreator) CreateTransaction(_ context.Context, txn model.Transaction) (*model.Transaction, error) {
	f.last = txn
	return f.created, f.err
}

func testForm(categorizer Categorizer, creator TransactionCreator) *Form {
	categories := []model.Category{
		{ID: "c1", Name: "Groceries"},
		{ID: "c2", Name: "Transport"},
	}
	keywords := []model.CategoryKeywords{
		{Name: "Groceries", Keywords: []string{"market"}},
		{Name: model.ProtectedCategoryName},
	}
	return NewForm(creator, categorizer, categories, keywords)
}

// drain executes commands synchronously and returns the produced messages.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, sub := range batch {
			out = append(out, drain(t, sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func typeText(t *testing.T, m *Form, text string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, r := range text {
		_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return cmd
}

// findMsg pulls the first message of type M out of a drained batch.
func findMsg[M tea.Msg](t *testing.T, msgs []tea.Msg) M {
	t.Helper()
	for _, msg := range msgs {
		if m, ok := msg.(M); ok {
			return m
		}
	}
	var zero M
	t.Fatalf("no %T in %d messages", zero, len(msgs))
	return zero
}

func TestTypingRunsFullSuggestionCycle(t *testing.T) {
	categorizer := &fakeCategorizer{reply: suggest.Suggestion{Name: "Groceries", Confidence: 0.9}}
	form := testForm(categorizer, &fakeCreator{})

	// Typing arms the debounce; only the last keystroke's timer matters.
	cmd := typeText(t, form, "weekly market")
	assert.Equal(t, suggest.StatePending, formState(form))

	// The tick sleeps the debounce interval, then delivers the timer message.
	timerMsg := findMsg[debounceMsg](t, drain(t, cmd))
	_, cmd = form.Update(timerMsg)

	result := findMsg[suggestionMsg](t, drain(t, cmd))
	require.Equal(t, 1, categorizer.calls)
	// The protected category never goes out in the request.
	for _, cat := range categorizer.last.Categories {
		assert.NotEqual(t, model.ProtectedCategoryName, cat.Name)
	}

	form.Update(result)
	assert.Equal(t, suggest.StateApplied, formState(form))
	assert.Equal(t, 0, form.categoryIdx) // Groceries auto-filled
}

func TestManualCategorySetsTouchedLock(t *testing.T) {
	categorizer := &fakeCategorizer{reply: suggest.Suggestion{Name: "Groceries", Confidence: 0.9}}
	form := testForm(categorizer, &fakeCreator{})

	// Move focus to the category selector and pick one manually.
	form.setFocus(focusCategory)
	form.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.True(t, form.controller.Touched())

	form.setFocus(focusDescription)
	cmd := typeText(t, form, "weekly market")
	timerMsg := findMsg[debounceMsg](t, drain(t, cmd))
	_, cmd = form.Update(timerMsg)
	form.Update(findMsg[suggestionMsg](t, drain(t, cmd)))

	// Suggestion shown but not auto-applied over the manual choice.
	assert.Equal(t, suggest.StateRejected, formState(form))
	assert.Equal(t, 0, form.categoryIdx)
}

func TestSubmitBuildsDraftAndQuits(t *testing.T) {
	creator := &fakeCreator{created: &model.Transaction{ID: "e1"}}
	form := testForm(&fakeCategorizer{}, creator)

	typeText(t, form, "bus pass")
	form.setFocus(focusAmount)
	typeText(t, form, "240")
	form.setFocus(focusCategory)
	form.Update(tea.KeyMsg{Type: tea.KeyRight})
	form.Update(tea.KeyMsg{Type: tea.KeyRight}) // Transport

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	result := findMsg[submitResultMsg](t, drain(t, cmd))
	form.Update(result)

	assert.Equal(t, "bus pass", creator.last.Description)
	assert.InDelta(t, 240, creator.last.Amount, 0.001)
	assert.Equal(t, "c2", creator.last.CategoryID)
	require.NotNil(t, form.Created())
	assert.Equal(t, "e1", form.Created().ID)
}

func TestCustomFrequencyIntervalInput(t *testing.T) {
	creator := &fakeCreator{created: &model.Transaction{ID: "e9"}}
	form := testForm(&fakeCategorizer{}, creator)

	typeText(t, form, "gym membership")
	form.setFocus(focusRecurring)
	form.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.True(t, form.recurring)

	form.setFocus(focusFrequency)
	for i := 0; i < len(frequencies)-1; i++ {
		form.Update(tea.KeyMsg{Type: tea.KeyRight})
	}
	require.Equal(t, model.FrequencyCustom, frequencies[form.freqIdx])

	form.setFocus(focusStartDate)
	typeText(t, form, "2024-05-01")
	form.setFocus(focusInterval)
	typeText(t, form, "14")

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	form.Update(findMsg[submitResultMsg](t, drain(t, cmd)))

	require.NotNil(t, creator.last.Recurrence)
	assert.Equal(t, model.FrequencyCustom, creator.last.Recurrence.Frequency)
	assert.Equal(t, 14, creator.last.Recurrence.IntervalDays)
	assert.Equal(t, "2024-05-01", creator.last.Recurrence.StartDate)
}

func TestSubmitErrorStaysOpen(t *testing.T) {
	creator := &fakeCreator{err: assert.AnError}
	form := testForm(&fakeCategorizer{}, creator)

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	form.Update(findMsg[submitResultMsg](t, drain(t, cmd)))

	assert.Nil(t, form.Created())
	assert.NotEmpty(t, form.errMsg)
}

func TestEscResetsDraftContext(t *testing.T) {
	form := testForm(&fakeCategorizer{}, &fakeCreator{})
	typeText(t, form, "weekly market")
	require.Equal(t, suggest.StatePending, formState(form))

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, suggest.StateIdle, formState(form))
	require.NotNil(t, cmd) // tea.Quit
}

func formState(f *Form) suggest.State {
	return f.controller.State()
}
