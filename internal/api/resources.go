package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"spentnest/internal/core"
)

// Expenses lists all expenses for a user.
func (c *Client) Expenses(ctx context.Context, userID string) ([]core.Expense, error) {
	var out []core.Expense
	if err := c.get(ctx, "/api/expenses/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// CreateExpense records a new expense.
func (c *Client) CreateExpense(ctx context.Context, e core.Expense) error {
	if err := c.post(ctx, "/api/expenses", e, nil); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// UpdateExpense replaces the full record identified by id.
func (c *Client) UpdateExpense(ctx context.Context, id string, e core.Expense) error {
	if err := c.put(ctx, "/api/expenses/"+url.PathEscape(id), e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return nil
}

// DeleteExpense removes the expense identified by id.
func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/api/expenses/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// Budgets lists all budgets for a user. The backend augments each record
// with its remaining amount.
func (c *Client) Budgets(ctx context.Context, userID string) ([]core.Budget, error) {
	var out []core.Budget
	if err := c.get(ctx, "/api/budgets/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := c.post(ctx, "/api/budgets", b, nil); err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/api/budgets/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

// Incomes lists all income records for a user.
func (c *Client) Incomes(ctx context.Context, userID string) ([]core.Income, error) {
	var out []core.Income
	if err := c.get(ctx, "/api/income/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	return out, nil
}

func (c *Client) CreateIncome(ctx context.Context, in core.Income) error {
	if err := c.post(ctx, "/api/income", in, nil); err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	return nil
}

func (c *Client) DeleteIncome(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/api/income/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return nil
}

// Savings lists the full savings history for a user.
func (c *Client) Savings(ctx context.Context, userID string) ([]core.Saving, error) {
	var out []core.Saving
	if err := c.get(ctx, "/api/savings/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list savings: %w", err)
	}
	return out, nil
}

// SavingForMonth fetches the single savings record for a month. A month
// with no record yields a zero-valued Saving, not an error: the panel
// falls back to ₹0 goal/saved.
func (c *Client) SavingForMonth(ctx context.Context, userID string, month core.Month) (core.Saving, error) {
	path := "/api/savings/" + url.PathEscape(userID) + "?month=" + url.QueryEscape(string(month))

	var raw json.RawMessage
	err := c.get(ctx, path, &raw)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return core.Saving{UserID: userID, Month: month}, nil
		}
		return core.Saving{}, fmt.Errorf("fetch savings: %w", err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return core.Saving{UserID: userID, Month: month}, nil
	}

	var s core.Saving
	if err := json.Unmarshal(raw, &s); err != nil {
		return core.Saving{}, fmt.Errorf("fetch savings: decode: %w", err)
	}
	if s.Month == "" {
		s.Month = month
	}
	return s, nil
}

func (c *Client) CreateSaving(ctx context.Context, s core.Saving) error {
	if err := c.post(ctx, "/api/savings", s, nil); err != nil {
		return fmt.Errorf("save savings: %w", err)
	}
	return nil
}

func (c *Client) DeleteSaving(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/api/savings/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete saving: %w", err)
	}
	return nil
}

// Dues lists all peer debts for a user.
func (c *Client) Dues(ctx context.Context, userID string) ([]core.Due, error) {
	var out []core.Due
	if err := c.get(ctx, "/api/dues/"+url.PathEscape(userID), &out); err != nil {
		return nil, fmt.Errorf("list dues: %w", err)
	}
	return out, nil
}

func (c *Client) CreateDue(ctx context.Context, d core.Due) error {
	if err := c.post(ctx, "/api/dues", d, nil); err != nil {
		return fmt.Errorf("create due: %w", err)
	}
	return nil
}

// MarkDueDone settles a pending due.
func (c *Client) MarkDueDone(ctx context.Context, id string) error {
	if err := c.patch(ctx, "/api/dues/"+url.PathEscape(id)+"/done"); err != nil {
		return fmt.Errorf("mark due done: %w", err)
	}
	return nil
}

func (c *Client) DeleteDue(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/api/dues/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("delete due: %w", err)
	}
	return nil
}
