package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrains/finbrains/internal/model"
)

func TestEvaluate(t *testing.T) {
	txns := []model.Transaction{
		{Kind: model.KindExpense, Amount: 400},
		{Kind: model.KindExpense, Amount: 700},
		{Kind: model.KindIncome, Amount: 5000},
	}

	status := Evaluate("2024-06", 1000, txns)

	assert.Equal(t, "2024-06", status.MonthKey)
	assert.InDelta(t, 1100, status.Spent, 0.001)
	assert.InDelta(t, -100, status.Remaining, 0.001)
	assert.InDelta(t, 110, status.Percentage, 0.001)
	assert.Equal(t, BandOver, Classify(status.Percentage))
}

func TestEvaluateExcludesIncome(t *testing.T) {
	txns := []model.Transaction{
		{Kind: model.KindIncome, Amount: 2500},
	}
	status := Evaluate("2024-06", 1000, txns)
	assert.Zero(t, status.Spent)
	assert.InDelta(t, 1000, status.Remaining, 0.001)
}

func TestEvaluateZeroBudget(t *testing.T) {
	txns := []model.Transaction{{Kind: model.KindExpense, Amount: 50}}
	status := Evaluate("2024-06", 0, txns)
	assert.Zero(t, status.Percentage)
	assert.InDelta(t, -50, status.Remaining, 0.001)
}

func TestEvaluateEmptyKindCountsAsExpense(t *testing.T) {
	// Backends that predate the kind field return expenses without it.
	status := Evaluate("2024-06", 100, []model.Transaction{{Amount: 30}})
	assert.InDelta(t, 30, status.Spent, 0.001)
}

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		pct  float64
		want Band
	}{
		{0, BandNominal},
		{70, BandNominal},
		{70.1, BandWarning},
		{100, BandWarning},
		{100.5, BandOver},
		{250, BandOver},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.pct), "pct=%v", tt.pct)
	}
}

func TestNotifierFiresOncePerEvaluation(t *testing.T) {
	var n Notifier
	over := model.BudgetStatus{MonthKey: "2024-06", Budget: 1000, Spent: 1100, Percentage: 110}

	msg, ok := n.Overage(over)
	require.True(t, ok)
	assert.Contains(t, msg, "100.00")

	// Same evaluation result again: a re-render, not a refresh.
	_, ok = n.Overage(over)
	assert.False(t, ok)

	// Spend moved: a genuinely new evaluation fires again.
	over.Spent = 1300
	over.Percentage = 130
	msg, ok = n.Overage(over)
	require.True(t, ok)
	assert.Contains(t, msg, "300.00")
}

func TestNotifierIgnoresNonOverage(t *testing.T) {
	var n Notifier
	_, ok := n.Overage(model.BudgetStatus{MonthKey: "2024-06", Budget: 1000, Spent: 900, Percentage: 90})
	assert.False(t, ok)

	// Exactly 100% is warning, not overage.
	_, ok = n.Overage(model.BudgetStatus{MonthKey: "2024-06", Budget: 1000, Spent: 1000, Percentage: 100})
	assert.False(t, ok)
}
