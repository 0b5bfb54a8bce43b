package model

import "strings"

// TransactionKind indicates whether a transaction is money out or money in.
type TransactionKind string

// Transaction kind constants.
const (
	KindExpense TransactionKind = "EXPENSE"
	KindIncome  TransactionKind = "INCOME"
)

// PaymentMethod identifies how a transaction was paid.
type PaymentMethod string

// Payment method constants. An empty PaymentMethod means unset.
const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCard       PaymentMethod = "CARD"
	PaymentUPI        PaymentMethod = "UPI"
	PaymentNetBanking PaymentMethod = "NET_BANKING"
)

// Transaction represents a single income or expense record. The ID is
// assigned by the backend; a draft being edited locally has an empty ID.
type Transaction struct {
	ID            string          `json:"id,omitempty"`
	CategoryID    string          `json:"categoryId"`
	CategoryName  string          `json:"categoryName,omitempty"`
	Amount        float64         `json:"amount"`
	Description   string          `json:"description"`
	Kind          TransactionKind `json:"type"`
	PaymentMethod PaymentMethod   `json:"paymentType,omitempty"`
	Date          string          `json:"date"` // YYYY-MM-DD, day granularity
	Recurrence    *Recurrence     `json:"recurrence,omitempty"`
}

// IsExpense reports whether the transaction counts against spend.
func (t *Transaction) IsExpense() bool {
	return t.Kind == KindExpense || t.Kind == ""
}

// ResolveCategoryName returns the best available category label, falling
// back to the raw category ID and finally "Uncategorized".
func (t *Transaction) ResolveCategoryName() string {
	if name := strings.TrimSpace(t.CategoryName); name != "" {
		return name
	}
	if id := strings.TrimSpace(t.CategoryID); id != "" {
		return id
	}
	return "Uncategorized"
}
