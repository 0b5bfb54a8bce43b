package api

import (
	"strings"

	"github.com/finbrains/finbrains/internal/model"
)

// txnWire is the backend's transaction shape. The recurrence block is flat
// on the wire; the category comes back as a nested {id, name} object but is
// sent as a bare categoryId.
type txnWire struct {
	ID          string   `json:"id,omitempty"`
	Amount      float64  `json:"amount"`
	Description string   `json:"description"`
	Type        string   `json:"type,omitempty"`
	CategoryID  string   `json:"categoryId,omitempty"`
	Category    *catWire `json:"category,omitempty"`
	PaymentType string   `json:"paymentType,omitempty"`
	Date        string   `json:"date,omitempty"`

	IsRecurring        bool   `json:"isRecurring"`
	RecurringFrequency string `json:"recurringFrequency,omitempty"`
	StartDate          string `json:"startDate,omitempty"`
	EndDate            string `json:"endDate,omitempty"`
	IntervalDays       int    `json:"intervalDays,omitempty"`
	NextDue            string `json:"nextDue,omitempty"`
}

type catWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toWire(t model.Transaction) txnWire {
	w := txnWire{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Type:        string(t.Kind),
		CategoryID:  t.CategoryID,
		PaymentType: string(t.PaymentMethod),
		Date:        t.Date,
	}
	// The backend stores dates with a time component.
	if w.Date != "" && !strings.Contains(w.Date, "T") {
		w.Date += "T00:00:00"
	}
	if r := t.Recurrence; r != nil && r.Enabled {
		w.IsRecurring = true
		w.RecurringFrequency = string(r.Frequency)
		w.StartDate = r.StartDate
		w.EndDate = r.EndDate
		w.IntervalDays = r.IntervalDays
	}
	return w
}

func (w txnWire) toModel() model.Transaction {
	t := model.Transaction{
		ID:            w.ID,
		Amount:        w.Amount,
		Description:   w.Description,
		Kind:          model.TransactionKind(w.Type),
		CategoryID:    w.CategoryID,
		PaymentMethod: model.PaymentMethod(w.PaymentType),
		Date:          dayOf(w.Date),
	}
	if w.Category != nil {
		if t.CategoryID == "" {
			t.CategoryID = w.Category.ID
		}
		t.CategoryName = w.Category.Name
	}
	if w.IsRecurring {
		t.Recurrence = &model.Recurrence{
			Enabled:      true,
			Frequency:    model.Frequency(w.RecurringFrequency),
			StartDate:    dayOf(w.StartDate),
			EndDate:      dayOf(w.EndDate),
			IntervalDays: w.IntervalDays,
			NextDue:      dayOf(w.NextDue),
		}
	}
	return t
}

// dayOf truncates a backend timestamp to its date part.
func dayOf(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}
