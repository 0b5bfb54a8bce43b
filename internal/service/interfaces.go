// Package service defines the interfaces for the external collaborators.
package service

import (
	"context"

	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/suggest"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	From  string // YYYY-MM-DD inclusive
	To    string // YYYY-MM-DD inclusive
	Limit int
}

// Backend is the persistence/API collaborator. It owns all durable state;
// the client only consumes the returned figures.
type Backend interface {
	// Category operations
	Categories(ctx context.Context) ([]model.Category, error)
	CategoryKeywords(ctx context.Context) ([]model.CategoryKeywords, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, category model.Category) error

	// Transaction operations
	Transactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CreateTransaction(ctx context.Context, txn model.Transaction) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, txn model.Transaction) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Budget operations
	SetBudget(ctx context.Context, amount float64) error
	BudgetStatus(ctx context.Context, month string) (*model.BudgetStatus, error)
	BudgetBreakdown(ctx context.Context, month string) (*BreakdownResponse, error)
	BudgetHistory(ctx context.Context, from, to string) ([]model.HistoryPoint, error)
	MonthlyIncome(ctx context.Context, month string) (float64, error)
}

// BreakdownResponse is the backend's per-category split for one month.
type BreakdownResponse struct {
	Total float64         `json:"total"`
	Items []BreakdownItem `json:"items"`
}

// BreakdownItem is one category row of a breakdown response.
type BreakdownItem struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Percent float64 `json:"percent"`
}

// Inference is the categorization suggestion collaborator. Best-effort and
// advisory only; never required for the save path to succeed.
type Inference interface {
	Categorize(ctx context.Context, req suggest.Request) (suggest.Suggestion, error)
}
