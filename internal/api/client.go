// Package api implements the HTTP client for the FinBrains backend. All
// durable state lives server-side; this client validates locally, unwraps
// the backend's inconsistent response envelopes, and surfaces server
// rejection messages verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/finbrains/finbrains/internal/common"
	"github.com/finbrains/finbrains/internal/model"
	"github.com/finbrains/finbrains/internal/recurrence"
	"github.com/finbrains/finbrains/internal/service"
)

// RequestError is a backend rejection. Message carries the server-provided
// text verbatim when available.
type RequestError struct {
	Message    string
	StatusCode int
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client talks to the FinBrains backend.
type Client struct {
	httpClient *http.Client
	session    *Session
	baseURL    string
	retryOpts  common.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryOptions overrides the retry policy for idempotent reads.
func WithRetryOptions(opts common.RetryOptions) Option {
	return func(c *Client) { c.retryOpts = opts }
}

// NewClient creates a backend client bound to the given session.
func NewClient(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryOpts: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := c.get(ctx, "/api/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryKeywords lists the per-category keyword sets used as inference
// input.
func (c *Client) CategoryKeywords(ctx context.Context) ([]model.CategoryKeywords, error) {
	var out []model.CategoryKeywords
	if err := c.get(ctx, "/api/categories/keywords", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a user category.
func (c *Client) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewValidationError("name", fmt.Errorf("category name is required"))
	}

	var out model.Category
	if err := c.mutate(ctx, http.MethodPost, "/api/categories", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory removes a category. Protected categories are rejected
// locally before any network call is attempted.
func (c *Client) DeleteCategory(ctx context.Context, category model.Category) error {
	if category.Protected() {
		return common.ErrProtectedCategory
	}
	return c.mutate(ctx, http.MethodDelete, "/api/categories/"+url.PathEscape(category.ID), nil, nil)
}

// Transactions lists transactions, optionally filtered by date range.
func (c *Client) Transactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	query := url.Values{}
	if filter.From != "" {
		query.Set("from", filter.From)
	}
	if filter.To != "" {
		query.Set("to", filter.To)
	}
	if filter.Limit > 0 {
		query.Set("limit", fmt.Sprint(filter.Limit))
	}

	var wire []txnWire
	if err := c.get(ctx, "/api/expenses", query, &wire); err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out, nil
}

// CreateTransaction validates a draft locally and submits it. Validation
// failures never reach the backend. The server owns the recurrence next-due
// date; the returned record carries the authoritative value.
func (c *Client) CreateTransaction(ctx context.Context, txn model.Transaction) (*model.Transaction, error) {
	prepared, err := prepareTransaction(txn)
	if err != nil {
		return nil, err
	}

	var out txnWire
	if err := c.mutate(ctx, http.MethodPost, "/api/expenses", toWire(prepared), &out); err != nil {
		return nil, err
	}
	created := out.toModel()
	return &created, nil
}

// UpdateTransaction validates and submits an edit of an existing record.
func (c *Client) UpdateTransaction(ctx context.Context, id string, txn model.Transaction) (*model.Transaction, error) {
	if id == "" {
		return nil, common.NewValidationError("id", fmt.Errorf("transaction id is required"))
	}
	prepared, err := prepareTransaction(txn)
	if err != nil {
		return nil, err
	}

	var out txnWire
	if err := c.mutate(ctx, http.MethodPut, "/api/expenses/"+url.PathEscape(id), toWire(prepared), &out); err != nil {
		return nil, err
	}
	updated := out.toModel()
	return &updated, nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, "/api/expenses/"+url.PathEscape(id), nil, nil)
}

// SetBudget sets the current month's budget. Repeated calls overwrite.
func (c *Client) SetBudget(ctx context.Context, amount float64) error {
	if amount < 0 {
		return common.NewValidationError("amount", fmt.Errorf("budget amount cannot be negative"))
	}
	return c.mutate(ctx, http.MethodPost, "/api/budget", map[string]float64{"amount": amount}, nil)
}

// BudgetStatus reads the derived consumption status for a month (YYYY-MM).
func (c *Client) BudgetStatus(ctx context.Context, month string) (*model.BudgetStatus, error) {
	query := url.Values{}
	if month != "" {
		query.Set("month", month)
	}
	var out model.BudgetStatus
	if err := c.get(ctx, "/api/budget/status", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BudgetBreakdown reads the per-category split for a month.
func (c *Client) BudgetBreakdown(ctx context.Context, month string) (*service.BreakdownResponse, error) {
	query := url.Values{"month": {month}}
	var out service.BreakdownResponse
	if err := c.get(ctx, "/api/budget/breakdown", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BudgetHistory reads the budget-vs-spent series for an inclusive month
// range (YYYY-MM).
func (c *Client) BudgetHistory(ctx context.Context, from, to string) ([]model.HistoryPoint, error) {
	query := url.Values{"from": {from}, "to": {to}}
	var out []model.HistoryPoint
	if err := c.get(ctx, "/api/budget/history", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MonthlyIncome reads the aggregate income for a month.
func (c *Client) MonthlyIncome(ctx context.Context, month string) (float64, error) {
	query := url.Values{}
	if month != "" {
		query.Set("month", month)
	}
	var out struct {
		Total float64 `json:"total"`
	}
	if err := c.get(ctx, "/api/income/monthly", query, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

// get performs an idempotent read with retry.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return common.WithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	}, c.retryOpts)
}

// mutate performs a write. Mutations are never retried automatically: a
// failed create/update/delete leaves prior state unchanged and the caller
// refreshes listings only after a confirmed success.
func (c *Client) mutate(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var cause error = &RequestError{StatusCode: resp.StatusCode, Message: serverMessage(respBody)}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			cause = fmt.Errorf("%w: %w", common.ErrUnauthorized, cause)
		case http.StatusNotFound:
			cause = fmt.Errorf("%w: %w", common.ErrNotFound, cause)
		}
		// Server errors are worth one more read attempt; client errors are not.
		return &common.RetryableError{Err: cause, Retryable: resp.StatusCode >= 500}
	}

	if out == nil {
		return nil
	}
	return unwrap(respBody, out)
}

// prepareTransaction runs the local pre-submit checks: required fields,
// recurrence normalization, and a provisional next-due the UI may display
// until the server returns the authoritative one.
func prepareTransaction(txn model.Transaction) (model.Transaction, error) {
	if strings.TrimSpace(txn.CategoryID) == "" {
		return model.Transaction{}, common.NewValidationError("category", common.ErrMissingCategory)
	}
	if txn.Amount <= 0 {
		return model.Transaction{}, common.NewValidationError("amount", common.ErrInvalidAmount)
	}
	if _, err := time.Parse(recurrence.DateLayout, txn.Date); err != nil {
		return model.Transaction{}, common.NewValidationError("date", common.ErrInvalidDate)
	}
	if txn.Kind == "" {
		txn.Kind = model.KindExpense
	}

	if txn.Recurrence != nil {
		normalized, err := recurrence.Validate(*txn.Recurrence)
		if err != nil {
			return model.Transaction{}, common.NewValidationError("recurrence", err)
		}
		if normalized.Enabled {
			today := time.Now().UTC().Format(recurrence.DateLayout)
			if due, err := recurrence.NextDue(normalized.Frequency, normalized.StartDate, today, normalized.IntervalDays); err == nil {
				normalized.NextDue = due
			}
			txn.Recurrence = &normalized
		} else {
			txn.Recurrence = nil
		}
	}
	return txn, nil
}
