package core

import "testing"

func expense(date, category string, paise int64) Expense {
	var d Date
	if err := d.UnmarshalJSON([]byte(`"` + date + `"`)); err != nil {
		panic(err)
	}
	return Expense{Amount: Money{Paise: paise}, Category: category, Date: d}
}

func TestGroupExpensesByMonth(t *testing.T) {
	expenses := []Expense{
		expense("2024-05-02", "Food", 20000),
		expense("2024-06-01", "Food", 5000),
		expense("2024-05-15", "Travel", 1000),
		expense("2023-12-31", "Gifts", 999),
	}

	groups := GroupExpensesByMonth(expenses)

	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	wantOrder := []Month{"2024-06", "2024-05", "2023-12"}
	total := 0
	for i, g := range groups {
		if g.Month != wantOrder[i] {
			t.Fatalf("group %d expected %s, got %s", i, wantOrder[i], g.Month)
		}
		for _, e := range g.Expenses {
			if e.Date.MonthKey() != g.Month {
				t.Fatalf("expense dated %s landed in group %s", e.Date.Format("2006-01-02"), g.Month)
			}
		}
		total += len(g.Expenses)
	}
	if total != len(expenses) {
		t.Fatalf("expected every record in exactly one group, got %d of %d", total, len(expenses))
	}
}

func TestGroupExpensesByMonthEmpty(t *testing.T) {
	if got := GroupExpensesByMonth(nil); len(got) != 0 {
		t.Fatalf("expected no groups, got %d", len(got))
	}
}

func TestRemainingBudget(t *testing.T) {
	budgets := []Budget{
		{Category: "Food", Amount: Money{Paise: 100000}, Remaining: Money{Paise: 15000}, Month: "2024-05"},
		{Category: "Travel", Amount: Money{Paise: 50000}, Remaining: Money{Paise: 50000}, Month: "2024-05"},
		{Category: "Food", Amount: Money{Paise: 90000}, Remaining: Money{Paise: 1}, Month: "2024-04"},
	}
	got := RemainingBudget(budgets, "2024-05")
	if got.Paise != 65000 {
		t.Fatalf("expected 65000, got %d", got.Paise)
	}
	if got := RemainingBudget(budgets, "2024-01"); !got.IsZero() {
		t.Fatalf("expected zero for month without budgets, got %d", got.Paise)
	}
}

func TestRemainingByCategory(t *testing.T) {
	budgets := []Budget{
		// 850/1000 used = 85% -> high alert
		{Category: "Food", Amount: Money{Paise: 100000}, Remaining: Money{Paise: 15000}, Month: "2024-05"},
		// 65% used -> medium alert
		{Category: "Travel", Amount: Money{Paise: 100000}, Remaining: Money{Paise: 35000}, Month: "2024-05"},
		// 10% used -> no alert
		{Category: "Bills", Amount: Money{Paise: 100000}, Remaining: Money{Paise: 90000}, Month: "2024-05"},
		{Category: "Old", Amount: Money{Paise: 100000}, Remaining: Money{}, Month: "2024-04"},
	}

	rows := RemainingByCategory(budgets, "2024-05")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	food := rows[0]
	if food.Category != "Food" || food.Remaining.String() != "₹150.00" {
		t.Fatalf("unexpected food row: %+v", food)
	}
	if food.UsedPercent != 85 || food.Alert != AlertHigh {
		t.Fatalf("expected 85%% high alert, got %.1f%% alert=%d", food.UsedPercent, food.Alert)
	}
	if rows[1].Alert != AlertMedium {
		t.Fatalf("expected medium alert, got %d", rows[1].Alert)
	}
	if rows[2].Alert != AlertNone {
		t.Fatalf("expected no alert, got %d", rows[2].Alert)
	}
}

func TestRemainingByCategoryZeroBudget(t *testing.T) {
	budgets := []Budget{
		{Category: "Empty", Amount: Money{}, Remaining: Money{}, Month: "2024-05"},
	}
	rows := RemainingByCategory(budgets, "2024-05")
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].UsedPercent != 0 || rows[0].Alert != AlertNone {
		t.Fatalf("zero budget must read as 0%% used, got %+v", rows[0])
	}
}

func TestMonthlyTrend(t *testing.T) {
	expenses := []Expense{
		expense("2024-05-02", "Food", 20000),
		expense("2024-06-01", "Food", 5000),
	}
	points := MonthlyTrend(expenses)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Month != "2024-05" || points[0].Total.Paise != 20000 {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
	if points[1].Month != "2024-06" || points[1].Total.Paise != 5000 {
		t.Fatalf("unexpected second point: %+v", points[1])
	}
	if points[0].Label != "May 2024" {
		t.Fatalf("expected label May 2024, got %q", points[0].Label)
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []Expense{
		expense("2024-05-02", "Food", 20000),
		expense("2024-05-10", "Food", 10000),
		expense("2024-05-11", "", 500), // no category -> Other
		expense("2024-04-01", "Food", 99999),
	}
	rows := CategoryTotals(expenses, "2024-05")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Category != "Food" || rows[0].Amount.Paise != 30000 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Category != "Other" || rows[1].Amount.Paise != 500 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestSavingsVsBudget(t *testing.T) {
	budgets := []Budget{
		{Category: "Food", Amount: Money{Paise: 100000}, Month: "2024-05"},
		{Category: "Travel", Amount: Money{Paise: 50000}, Month: "2024-05"},
		{Category: "Food", Amount: Money{Paise: 80000}, Month: "2024-06"},
	}
	savings := []Saving{
		{Month: "2024-05", Saved: Money{Paise: 20000}},
		{Month: "2024-07", Saved: Money{Paise: 30000}},
		// Duplicate month: last write wins.
		{Month: "2024-05", Saved: Money{Paise: 25000}},
	}

	rows := SavingsVsBudget(budgets, savings)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Month != "2024-05" || rows[0].Budget.Paise != 150000 || rows[0].Saved.Paise != 25000 {
		t.Fatalf("unexpected 2024-05 row: %+v", rows[0])
	}
	if rows[1].Month != "2024-06" || rows[1].Budget.Paise != 80000 || !rows[1].Saved.IsZero() {
		t.Fatalf("unexpected 2024-06 row: %+v", rows[1])
	}
	if rows[2].Month != "2024-07" || !rows[2].Budget.IsZero() || rows[2].Saved.Paise != 30000 {
		t.Fatalf("unexpected 2024-07 row: %+v", rows[2])
	}
}

func TestSummarizeDues(t *testing.T) {
	dues := []Due{
		{Type: Lent, Amount: Money{Paise: 50000}, Status: Pending},
		{Type: Borrowed, Amount: Money{Paise: 20000}, Status: Done},
	}
	sum := SummarizeDues(dues)
	if sum.Receivable.Paise != 50000 {
		t.Fatalf("expected receivable 50000, got %d", sum.Receivable.Paise)
	}
	if !sum.Owed.IsZero() {
		t.Fatalf("settled dues must not count, got owed %d", sum.Owed.Paise)
	}
}

func TestMonthlyExpenseTotal(t *testing.T) {
	expenses := []Expense{
		expense("2024-05-02", "Food", 20000),
		expense("2024-06-01", "Food", 5000),
	}
	if got := MonthlyExpenseTotal(expenses, "2024-05"); got.Paise != 20000 {
		t.Fatalf("expected 20000, got %d", got.Paise)
	}
}
