// Package budget evaluates monthly budget consumption and raises overage
// signals.
package budget

import (
	"fmt"

	"github.com/finbrains/finbrains/internal/model"
)

// Band classifies budget consumption for display severity.
type Band int

// Severity bands.
const (
	BandNominal Band = iota // <= 70%
	BandWarning             // 70-100%
	BandOver                // > 100%
)

// String returns the band's display name.
func (b Band) String() string {
	switch b {
	case BandWarning:
		return "warning"
	case BandOver:
		return "over"
	default:
		return "nominal"
	}
}

// Evaluate computes the consumption status for one month's budget from the
// transactions of that month. Only EXPENSE transactions count toward spend.
// Percentage is the raw value: it exceeds 100 on overage and is 0 when the
// budget itself is 0.
func Evaluate(month string, budgetAmount float64, txns []model.Transaction) model.BudgetStatus {
	var spent float64
	for _, t := range txns {
		if t.IsExpense() {
			spent += t.Amount
		}
	}

	var percentage float64
	if budgetAmount > 0 {
		percentage = spent / budgetAmount * 100
	}

	return model.BudgetStatus{
		Month:      month,
		MonthKey:   month,
		Budget:     budgetAmount,
		Spent:      spent,
		Remaining:  budgetAmount - spent,
		Percentage: percentage,
	}
}

// Classify maps a raw percentage to its severity band.
func Classify(percentage float64) Band {
	switch {
	case percentage > 100:
		return BandOver
	case percentage > 70:
		return BandWarning
	default:
		return BandNominal
	}
}

// DisplayPercentage clamps a raw percentage to >= 0 for rendering. Overage
// detection always uses the raw value.
func DisplayPercentage(percentage float64) float64 {
	if percentage < 0 {
		return 0
	}
	return percentage
}

// Notifier deduplicates overage notifications. A notification fires at most
// once per distinct evaluation result: re-evaluating unchanged data stays
// silent, a new status with a different overage fires again.
type Notifier struct {
	lastKey string
}

// Overage returns the one-time overage message for a status refresh, and
// whether it should be shown. Non-overage statuses reset nothing and never
// fire.
func (n *Notifier) Overage(status model.BudgetStatus) (string, bool) {
	if status.Percentage <= 100 {
		return "", false
	}
	key := fmt.Sprintf("%s|%.2f|%.2f", status.MonthKey, status.Budget, status.Spent)
	if key == n.lastKey {
		return "", false
	}
	n.lastKey = key
	amount := status.Spent - status.Budget
	return fmt.Sprintf("You have exceeded your monthly budget by %.2f!", amount), true
}

// Reset clears the dedupe state, e.g. when switching months.
func (n *Notifier) Reset() {
	n.lastKey = ""
}
