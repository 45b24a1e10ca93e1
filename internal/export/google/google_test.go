package google

import (
	"testing"
	"time"

	"spentnest/internal/core"
)

func TestExpenseRows(t *testing.T) {
	expenses := []core.Expense{
		{
			Date:        core.Date{Time: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
			Description: "lunch",
			Category:    "Food",
			Amount:      core.Money{Paise: 20000},
		},
		{
			Date:   core.Date{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			Amount: core.Money{Paise: 5050},
		},
	}

	rows := expenseRows(expenses)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "2024-05-02" || rows[0][1] != "lunch" || rows[0][2] != "Food" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
	if rows[0][3] != 200.0 {
		t.Fatalf("expected amount 200.0, got %v", rows[0][3])
	}
	if rows[1][2] != "Other" {
		t.Fatalf("blank category should export as Other, got %v", rows[1][2])
	}
	if rows[1][3] != 50.5 {
		t.Fatalf("expected amount 50.5, got %v", rows[1][3])
	}
}
