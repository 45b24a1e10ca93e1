package core

import "sort"

// Alert levels for category budget usage.
type AlertLevel int

const (
	AlertNone AlertLevel = iota
	AlertMedium
	AlertHigh
)

const (
	alertMediumThreshold = 60.0
	alertHighThreshold   = 80.0
)

type (
	// MonthGroup is one collapsible block of the expense list.
	MonthGroup struct {
		Month    Month
		Expenses []Expense
	}

	// CategoryUsage is one row of the remaining-by-category view.
	CategoryUsage struct {
		Category    string
		Total       Money
		Remaining   Money
		Used        Money
		UsedPercent float64
		Alert       AlertLevel
	}

	// TrendPoint is one month of the expense trend chart.
	TrendPoint struct {
		Month Month
		Label string
		Total Money
	}

	CategoryAmount struct {
		Category string
		Amount   Money
	}

	// MonthComparison pairs budgeted and saved amounts for one month.
	MonthComparison struct {
		Month  Month
		Label  string
		Budget Money
		Saved  Money
	}

	DuesSummary struct {
		Receivable Money
		Owed       Money
	}
)

// GroupExpensesByMonth partitions expenses by their YYYY-MM key.
// Groups are returned most recent month first; within a group the input
// order is preserved.
func GroupExpensesByMonth(expenses []Expense) []MonthGroup {
	byMonth := make(map[Month][]Expense)
	for _, e := range expenses {
		key := e.Date.MonthKey()
		byMonth[key] = append(byMonth[key], e)
	}

	keys := make([]Month, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	groups := make([]MonthGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, MonthGroup{Month: k, Expenses: byMonth[k]})
	}
	return groups
}

// RemainingBudget sums the backend-computed remaining amounts over the
// given month's budgets. The backend field is authoritative; the client
// never recomputes it from expenses.
func RemainingBudget(budgets []Budget, month Month) Money {
	var total Money
	for _, b := range budgets {
		if b.Month == month {
			total = total.Add(b.Remaining)
		}
	}
	return total
}

// RemainingByCategory derives per-category usage for the given month.
// A zero-amount budget counts as 0% used rather than dividing by zero.
func RemainingByCategory(budgets []Budget, month Month) []CategoryUsage {
	var rows []CategoryUsage
	for _, b := range budgets {
		if b.Month != month {
			continue
		}
		used := b.Amount.Sub(b.Remaining)
		percent := 0.0
		if b.Amount.Paise > 0 {
			percent = float64(used.Paise) / float64(b.Amount.Paise) * 100
		}
		alert := AlertNone
		switch {
		case percent >= alertHighThreshold:
			alert = AlertHigh
		case percent >= alertMediumThreshold:
			alert = AlertMedium
		}
		rows = append(rows, CategoryUsage{
			Category:    b.Category,
			Total:       b.Amount,
			Remaining:   b.Remaining,
			Used:        used,
			UsedPercent: percent,
			Alert:       alert,
		})
	}
	return rows
}

// MonthlyTrend sums expenses per month, oldest month first.
func MonthlyTrend(expenses []Expense) []TrendPoint {
	totals := make(map[Month]Money)
	for _, e := range expenses {
		key := e.Date.MonthKey()
		totals[key] = totals[key].Add(e.Amount)
	}

	keys := make([]Month, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	points := make([]TrendPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, TrendPoint{Month: k, Label: k.Label(), Total: totals[k]})
	}
	return points
}

// CategoryTotals sums the given month's expenses per category, largest
// first. Expenses without a category fall under "Other".
func CategoryTotals(expenses []Expense, month Month) []CategoryAmount {
	totals := make(map[string]Money)
	for _, e := range expenses {
		if e.Date.MonthKey() != month {
			continue
		}
		cat := e.Category
		if cat == "" {
			cat = "Other"
		}
		totals[cat] = totals[cat].Add(e.Amount)
	}

	rows := make([]CategoryAmount, 0, len(totals))
	for cat, amt := range totals {
		rows = append(rows, CategoryAmount{Category: cat, Amount: amt})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount.Paise != rows[j].Amount.Paise {
			return rows[i].Amount.Paise > rows[j].Amount.Paise
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// MonthlyExpenseTotal sums the given month's expenses.
func MonthlyExpenseTotal(expenses []Expense, month Month) Money {
	var total Money
	for _, e := range expenses {
		if e.Date.MonthKey() == month {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// SavingsVsBudget pairs each month's summed budgets with its saved amount,
// oldest month first. Months present in either list appear; duplicate
// savings records for a month overwrite earlier ones (last write wins,
// matching the fetch order of the savings history).
func SavingsVsBudget(budgets []Budget, savings []Saving) []MonthComparison {
	type pair struct {
		budget Money
		saved  Money
	}
	byMonth := make(map[Month]*pair)
	get := func(m Month) *pair {
		p, ok := byMonth[m]
		if !ok {
			p = &pair{}
			byMonth[m] = p
		}
		return p
	}
	for _, b := range budgets {
		p := get(b.Month)
		p.budget = p.budget.Add(b.Amount)
	}
	for _, s := range savings {
		get(s.Month).saved = s.Saved
	}

	keys := make([]Month, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	rows := make([]MonthComparison, 0, len(keys))
	for _, k := range keys {
		p := byMonth[k]
		rows = append(rows, MonthComparison{Month: k, Label: k.Label(), Budget: p.budget, Saved: p.saved})
	}
	return rows
}

// SummarizeDues computes the running totals shown above the dues list.
// Only pending entries count; settled dues are excluded from both sides.
func SummarizeDues(dues []Due) DuesSummary {
	var sum DuesSummary
	for _, d := range dues {
		if d.Status != Pending {
			continue
		}
		switch d.Type {
		case Lent:
			sum.Receivable = sum.Receivable.Add(d.Amount)
		case Borrowed:
			sum.Owed = sum.Owed.Add(d.Amount)
		}
	}
	return sum
}
