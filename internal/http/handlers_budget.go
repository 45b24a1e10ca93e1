package http

import (
	"log/slog"
	"net/http"
	"strings"

	"spentnest/internal/bus"
	"spentnest/internal/core"
)

type budgetRow struct {
	ID        string
	Category  string
	Month     string
	Amount    string
	Remaining string
}

// handleBudgetPanel renders the budget list split into current and past
// months.
func (s *Server) handleBudgetPanel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	budgets, err := s.getBudgets(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "List budgets error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load budgets</div>`))
		return
	}

	current := core.CurrentMonth()
	var data struct {
		MonthLabel string
		Current    []budgetRow
		Past       []budgetRow
	}
	data.MonthLabel = current.Label()
	for _, b := range budgets {
		row := budgetRow{
			ID:        b.ID,
			Category:  b.Category,
			Month:     b.Month.Label(),
			Amount:    b.Amount.String(),
			Remaining: b.Remaining.String(),
		}
		if b.Month == current {
			data.Current = append(data.Current, row)
		} else {
			data.Past = append(data.Past, row)
		}
	}

	if err := s.templates.ExecuteTemplate(w, "budget_panel.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "budget_panel.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render budgets</div>`))
	}
}

// handleRemainingBudget renders the headline remaining amount for the
// current month.
func (s *Server) handleRemainingBudget(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	budgets, err := s.getBudgets(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "Remaining budget error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<span class="placeholder">—</span>`))
		return
	}

	remaining := core.RemainingBudget(budgets, parseMonthParam(r))
	data := struct {
		Remaining string
		Negative  bool
	}{Remaining: remaining.String(), Negative: remaining.Paise < 0}

	if err := s.templates.ExecuteTemplate(w, "remaining_budget.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "remaining_budget.html")
		_, _ = w.Write([]byte(`<span class="placeholder">—</span>`))
	}
}

type categoryUsageRow struct {
	Category  string
	Total     string
	Remaining string
	Percent   int
	Alert     string
}

// handleBudgetCategories renders per-category usage bars with alert
// tiers for the current month.
func (s *Server) handleBudgetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	budgets, err := s.getBudgets(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "Budget categories error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load category usage</div>`))
		return
	}

	var data struct {
		Rows []categoryUsageRow
	}
	for _, u := range core.RemainingByCategory(budgets, parseMonthParam(r)) {
		alert := ""
		switch u.Alert {
		case core.AlertHigh:
			alert = "high"
		case core.AlertMedium:
			alert = "medium"
		}
		percent := int(u.UsedPercent)
		if percent > 100 {
			percent = 100
		}
		data.Rows = append(data.Rows, categoryUsageRow{
			Category:  u.Category,
			Total:     u.Total.String(),
			Remaining: u.Remaining.String(),
			Percent:   percent,
			Alert:     alert,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "budget_categories.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "budget_categories.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render category usage</div>`))
	}
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	sess := sessionFrom(r.Context())

	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	if amountStr == "" {
		validationError("Amount is required").Write(w)
		return
	}
	paise, err := core.ParseDecimalToPaise(amountStr)
	if err != nil {
		validationError("Enter a valid amount").Write(w)
		return
	}

	budget := core.Budget{
		UserID:   sess.UserID,
		Category: sanitizeInput(r.Form.Get("category")),
		Amount:   core.Money{Paise: paise},
		Month:    parseMonthParam(r),
	}
	if err := budget.Validate(); err != nil {
		validationError(err.Error()).Write(w)
		return
	}

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.CreateBudget(cctx, budget); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save budget",
			"error", err,
			"category", budget.Category,
			"month", budget.Month,
			"component", "budget_handler",
			"operation", "create")
		backendError(err, "Could not save budget").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityBudget, Action: bus.ActionCreated, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerFormReset().
		TriggerEntityChanged(bus.EntityBudget).
		TriggerSuccessNotification("Budget set for " + budget.Category).
		Write(w)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		MethodNotAllowedError("POST, DELETE").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		validationError("Budget id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.DeleteBudget(cctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete budget", "error", err, "budget_id", id)
		backendError(err, "Could not delete budget").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityBudget, Action: bus.ActionDeleted, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityBudget).
		TriggerSuccessNotification("Budget deleted").
		Write(w)
}
