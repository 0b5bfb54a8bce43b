package model

// Budget is the spending limit for one calendar month. Month is a YYYY-MM
// key; setting a budget for a month that already has one overwrites it.
type Budget struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// BudgetStatus is the derived consumption view for one month. Remaining may
// be negative and Percentage may exceed 100; callers clamp for display only.
type BudgetStatus struct {
	Month      string  `json:"month"`
	MonthKey   string  `json:"monthKey,omitempty"`
	Budget     float64 `json:"budget"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// HistoryPoint is one month of the budget-vs-spent history series.
type HistoryPoint struct {
	MonthKey string  `json:"monthKey"`
	Budget   float64 `json:"budget"`
	Spent    float64 `json:"spent"`
}
