package suggest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrains/finbrains/internal/model"
)

func testCategories() ([]model.Category, []model.CategoryKeywords) {
	categories := []model.Category{
		{ID: "c1", Name: "Groceries", Keywords: []string{"market", "food"}},
		{ID: "c2", Name: "Transport"},
		{ID: "c3", Name: model.ProtectedCategoryName, Predefined: true},
	}
	keywords := []model.CategoryKeywords{
		{Name: "Groceries", Keywords: []string{"market", "food"}},
		{Name: "Transport"},
		{Name: model.ProtectedCategoryName, Keywords: []string{"salary"}},
	}
	return categories, keywords
}

func newTestController() *Controller {
	c := NewController(Config{})
	c.SetCategories(testCategories())
	return c
}

// fire walks one full debounce cycle and returns the issued request.
func fire(t *testing.T, c *Controller, description string, amount float64) IssueRequest {
	t.Helper()
	cmds := c.Input(description, amount, model.KindExpense)
	require.Len(t, cmds, 1)
	timer, ok := cmds[0].(StartTimer)
	require.True(t, ok)

	cmds = c.TimerFired(timer.Seq)
	require.Len(t, cmds, 1)
	req, ok := cmds[0].(IssueRequest)
	require.True(t, ok)
	return req
}

func TestShortDescriptionStaysIdle(t *testing.T) {
	c := newTestController()

	assert.Nil(t, c.Input("ab", 10, model.KindExpense))
	assert.Equal(t, StateIdle, c.State())

	// Whitespace does not count toward the minimum.
	assert.Nil(t, c.Input("  a  ", 10, model.KindExpense))
	assert.Equal(t, StateIdle, c.State())
}

func TestIncomeKindStaysIdle(t *testing.T) {
	c := newTestController()
	assert.Nil(t, c.Input("monthly salary", 5000, model.KindIncome))
	assert.Equal(t, StateIdle, c.State())
}

func TestQualifyingInputArmsDebounce(t *testing.T) {
	c := newTestController()

	cmds := c.Input("uber ride", 240, model.KindExpense)
	require.Len(t, cmds, 1)
	timer, ok := cmds[0].(StartTimer)
	require.True(t, ok)
	assert.Equal(t, DefaultDebounce, timer.After)
	assert.Equal(t, StatePending, c.State())
}

func TestKeystrokesRearmAndOnlyLastTimerFires(t *testing.T) {
	c := newTestController()

	first := c.Input("ube", 0, model.KindExpense)[0].(StartTimer)
	second := c.Input("uber", 0, model.KindExpense)[0].(StartTimer)

	// The superseded timer is absorbed.
	assert.Nil(t, c.TimerFired(first.Seq))

	cmds := c.TimerFired(second.Seq)
	require.Len(t, cmds, 1)
	req := cmds[0].(IssueRequest)
	assert.Equal(t, "uber", req.Request.Description)
}

func TestRequestExcludesProtectedCategory(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	require.Len(t, req.Request.Categories, 2)
	for _, cat := range req.Request.Categories {
		assert.NotEqual(t, model.ProtectedCategoryName, cat.Name)
		assert.NotNil(t, cat.Keywords)
	}
	assert.InDelta(t, 85, req.Request.Amount, 0.001)
}

func TestConfidenceGateInclusive(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	// Exactly 0.5 meets the gate.
	outcome := c.HandleResult(req.Seq, Suggestion{Name: "Groceries", Confidence: 0.5}, nil)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, StateApplied, c.State())
	assert.Equal(t, "c1", c.AppliedCategoryID())
}

func TestLowConfidenceRejectedButShown(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	outcome := c.HandleResult(req.Seq, Suggestion{Name: "Groceries", Confidence: 0.49, Reason: "weak match"}, nil)
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Equal(t, StateRejected, c.State())
	require.NotNil(t, c.Suggestion())
	assert.Equal(t, "weak match", c.Suggestion().Reason)
	// The explicit apply action still works.
	assert.Equal(t, "c1", c.AppliedCategoryID())
}

func TestUnknownCategoryNameRejected(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	outcome := c.HandleResult(req.Seq, Suggestion{Name: "Pet Supplies", Confidence: 0.9}, nil)
	assert.Equal(t, OutcomeRejected, outcome)
	assert.Empty(t, c.AppliedCategoryID())
}

func TestTouchedLockBlocksAutoFill(t *testing.T) {
	c := newTestController()
	c.Touch()
	req := fire(t, c, "weekly market run", 85)

	outcome := c.HandleResult(req.Seq, Suggestion{Name: "Groceries", Confidence: 0.95}, nil)
	assert.Equal(t, OutcomeRejected, outcome)
	require.NotNil(t, c.Suggestion())
}

func TestInferenceErrorSwallowed(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	outcome := c.HandleResult(req.Seq, Suggestion{}, errors.New("connection refused"))
	assert.Equal(t, OutcomeDiscarded, outcome)
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Suggestion())
}

func TestStaleResultDiscardedAfterNewInput(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	// User keeps typing before the response lands.
	c.Input("weekly market run and pharmacy", 120, model.KindExpense)

	outcome := c.HandleResult(req.Seq, Suggestion{Name: "Groceries", Confidence: 0.9}, nil)
	assert.Equal(t, OutcomeDiscarded, outcome)
	assert.Equal(t, StatePending, c.State())
	assert.Nil(t, c.Suggestion())
}

func TestResultAfterResetDiscarded(t *testing.T) {
	c := newTestController()
	req := fire(t, c, "weekly market run", 85)

	c.Reset()

	outcome := c.HandleResult(req.Seq, Suggestion{Name: "Groceries", Confidence: 0.9}, nil)
	assert.Equal(t, OutcomeDiscarded, outcome)
	assert.Equal(t, StateExpired, c.State())
	assert.Nil(t, c.Suggestion())
	assert.Empty(t, c.AppliedCategoryID())
}

func TestClearingDescriptionReturnsToIdle(t *testing.T) {
	c := newTestController()
	fire(t, c, "weekly market run", 85)

	assert.Nil(t, c.Input("", 85, model.KindExpense))
	assert.Equal(t, StateIdle, c.State())
	assert.Nil(t, c.Suggestion())
}

func TestKindChangeReturnsToIdle(t *testing.T) {
	c := newTestController()
	fire(t, c, "weekly market run", 85)

	assert.Nil(t, c.Input("weekly market run", 85, model.KindIncome))
	assert.Equal(t, StateIdle, c.State())
}

func TestResetClearsTouchedLock(t *testing.T) {
	c := newTestController()
	c.Touch()
	require.True(t, c.Touched())

	c.Reset()
	assert.False(t, c.Touched())
}
