package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"spentnest/internal/core"
)

// handleSummaryCard renders the headline numbers for the current month:
// spent, remaining budget, income and pending dues. The four backend
// reads run concurrently; one failure fails the whole card.
func (s *Server) handleSummaryCard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())
	month := parseMonthParam(r)

	var (
		expenses []core.Expense
		budgets  []core.Budget
		incomes  []core.Income
		dues     []core.Due
	)

	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		expenses, err = s.getExpenses(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.getBudgets(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.getIncomes(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		dues, err = s.getDues(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "Summary card error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load summary</div>`))
		return
	}

	var monthIncome core.Money
	for _, in := range incomes {
		if in.Month == month {
			monthIncome = monthIncome.Add(in.Amount)
		}
	}

	duesSummary := core.SummarizeDues(dues)
	data := struct {
		MonthLabel string
		Spent      string
		Remaining  string
		Income     string
		Receivable string
		Owed       string
	}{
		MonthLabel: month.Label(),
		Spent:      core.MonthlyExpenseTotal(expenses, month).String(),
		Remaining:  core.RemainingBudget(budgets, month).String(),
		Income:     monthIncome.String(),
		Receivable: duesSummary.Receivable.String(),
		Owed:       duesSummary.Owed.String(),
	}

	if err := s.templates.ExecuteTemplate(w, "summary_card.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary_card.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render summary</div>`))
	}
}

func writeChartJSON(w http.ResponseWriter, r *http.Request, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "Chart encoding error", "error", err, "url", r.URL.Path)
	}
}

// handleTrendChart returns month-by-month expense totals, oldest first.
func (s *Server) handleTrendChart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	expenses, err := s.getExpenses(r.Context(), sess)
	if err != nil {
		http.Error(w, "could not load expenses", http.StatusBadGateway)
		return
	}

	type point struct {
		Label string  `json:"label"`
		Total float64 `json:"total"`
	}
	points := []point{}
	for _, p := range core.MonthlyTrend(expenses) {
		points = append(points, point{Label: p.Label, Total: p.Total.Rupees()})
	}
	writeChartJSON(w, r, points)
}

// handleCategoryChart returns the current month's per-category totals,
// largest first.
func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	expenses, err := s.getExpenses(r.Context(), sess)
	if err != nil {
		http.Error(w, "could not load expenses", http.StatusBadGateway)
		return
	}

	type slice struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}
	slices := []slice{}
	for _, c := range core.CategoryTotals(expenses, parseMonthParam(r)) {
		slices = append(slices, slice{Category: c.Category, Amount: c.Amount.Rupees()})
	}
	writeChartJSON(w, r, slices)
}

// handleSavingsChart returns budgeted vs saved amounts per month. The
// two reads run concurrently.
func (s *Server) handleSavingsChart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var (
		budgets []core.Budget
		savings []core.Saving
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		budgets, err = s.getBudgets(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		savings, err = s.getSavings(gctx, sess)
		return err
	})
	if err := g.Wait(); err != nil {
		http.Error(w, "could not load savings comparison", http.StatusBadGateway)
		return
	}

	type bar struct {
		Label  string  `json:"label"`
		Budget float64 `json:"budget"`
		Saved  float64 `json:"saved"`
	}
	bars := []bar{}
	for _, m := range core.SavingsVsBudget(budgets, savings) {
		bars = append(bars, bar{Label: m.Label, Budget: m.Budget.Rupees(), Saved: m.Saved.Rupees()})
	}
	writeChartJSON(w, r, bars)
}

// handleBudgetUsageChart returns used vs remaining per category for the
// current month, for the donut chart.
func (s *Server) handleBudgetUsageChart(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	budgets, err := s.getBudgets(r.Context(), sess)
	if err != nil {
		http.Error(w, "could not load budgets", http.StatusBadGateway)
		return
	}

	type wedge struct {
		Category  string  `json:"category"`
		Used      float64 `json:"used"`
		Remaining float64 `json:"remaining"`
		Percent   float64 `json:"percent"`
	}
	wedges := []wedge{}
	for _, u := range core.RemainingByCategory(budgets, parseMonthParam(r)) {
		wedges = append(wedges, wedge{
			Category:  u.Category,
			Used:      u.Used.Rupees(),
			Remaining: u.Remaining.Rupees(),
			Percent:   u.UsedPercent,
		})
	}
	writeChartJSON(w, r, wedges)
}
