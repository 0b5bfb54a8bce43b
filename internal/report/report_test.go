package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finbrains/finbrains/internal/model"
)

func TestMonthlyTrend(t *testing.T) {
	txns := []model.Transaction{
		{Date: "2024-01-05", Amount: 50},
		{Date: "2024-01-20", Amount: 30},
		{Date: "not a date", Amount: 999},
		{Date: "2023-12-31", Amount: 10},
	}

	got := MonthlyTrend(txns)

	require.Len(t, got, 2)
	assert.Equal(t, TrendPoint{Month: "2023-12", Amount: 10}, got[0])
	assert.Equal(t, TrendPoint{Month: "2024-01", Amount: 80}, got[1])
}

func TestMonthlyTrendAcceptsTimestampedDates(t *testing.T) {
	// The backend serializes dates as LocalDateTime strings.
	got := MonthlyTrend([]model.Transaction{{Date: "2024-03-05T00:00:00", Amount: 12}})
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03", got[0].Month)
}

func TestCategoryBreakdown(t *testing.T) {
	txns := []model.Transaction{
		{Date: "2024-06-01", Amount: 60, CategoryName: "Groceries"},
		{Date: "2024-06-10", Amount: 20, CategoryName: "Groceries"},
		{Date: "2024-06-11", Amount: 20, CategoryID: "cat-42"},
		{Date: "2024-06-12", Amount: 100},
		{Date: "2024-07-01", Amount: 500, CategoryName: "Travel"}, // other month
	}

	got := CategoryBreakdown(txns, "2024-06")

	assert.InDelta(t, 200, got.Total, 0.001)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Uncategorized", got.Items[0].Name)
	assert.InDelta(t, 50, got.Items[0].Percent, 0.001)
	assert.Equal(t, "Groceries", got.Items[1].Name)
	assert.InDelta(t, 80, got.Items[1].Amount, 0.001)
	assert.Equal(t, "cat-42", got.Items[2].Name)
}

func TestCategoryBreakdownEmptyMonth(t *testing.T) {
	got := CategoryBreakdown(nil, "2024-06")
	assert.Zero(t, got.Total)
	assert.Empty(t, got.Items)
}

func TestTopCategories(t *testing.T) {
	txns := []model.Transaction{
		{Amount: 10, CategoryName: "Coffee"},
		{Amount: 80, CategoryName: "Rent"},
		{Amount: 25, CategoryName: "Groceries"},
		{Amount: 25, CategoryName: "Coffee"},
		{Amount: 5, CategoryName: "Books"},
	}

	got := TopCategories(txns, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "Rent", got[0].Name)
	assert.Equal(t, "Coffee", got[1].Name)
	assert.InDelta(t, 35, got[1].Amount, 0.001)
	assert.Equal(t, "Groceries", got[2].Name)
}

func TestNormalizeHistory(t *testing.T) {
	in := []model.HistoryPoint{
		{MonthKey: "2024-03", Budget: 1000},
		{MonthKey: "2024-01", Spent: 200},
		{MonthKey: "2024-02"},
	}

	got := NormalizeHistory(in)

	require.Len(t, got, 3)
	assert.Equal(t, "2024-01", got[0].MonthKey)
	assert.Equal(t, "2024-02", got[1].MonthKey)
	assert.Equal(t, "2024-03", got[2].MonthKey)
	assert.Zero(t, got[1].Budget)
	assert.Zero(t, got[1].Spent)

	// Input order is untouched.
	assert.Equal(t, "2024-03", in[0].MonthKey)
}

func TestRecent(t *testing.T) {
	txns := []model.Transaction{
		{ID: "a", Date: "2024-06-01"},
		{ID: "b", Date: "2024-06-15"},
		{ID: "c", Date: "garbage"},
		{ID: "d", Date: "2024-05-01"},
	}

	got := Recent(txns, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestDerivationsAreIdempotent(t *testing.T) {
	txns := []model.Transaction{
		{Date: "2024-01-05", Amount: 50, CategoryName: "A"},
		{Date: "2024-02-05", Amount: 30, CategoryName: "B"},
		{Date: "2024-02-06", Amount: 20, CategoryName: "A"},
	}
	history := []model.HistoryPoint{{MonthKey: "2024-02"}, {MonthKey: "2024-01"}}

	assert.Equal(t, MonthlyTrend(txns), MonthlyTrend(txns))
	assert.Equal(t, CategoryBreakdown(txns, "2024-02"), CategoryBreakdown(txns, "2024-02"))
	assert.Equal(t, TopCategories(txns, 3), TopCategories(txns, 3))
	assert.Equal(t, NormalizeHistory(history), NormalizeHistory(history))
}
