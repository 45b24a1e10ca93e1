package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"spentnest/internal/bus"
	"spentnest/internal/core"
)

// expenseCategoryOptions mirrors the choices on the add-expense form.
var expenseCategoryOptions = []string{"Food", "Transport", "Rent", "Shopping", "Bills", "Entertainment", "Other"}

func expenseCategories(current string) []string {
	for _, c := range expenseCategoryOptions {
		if c == current {
			return expenseCategoryOptions
		}
	}
	return append([]string{current}, expenseCategoryOptions...)
}

type expenseRow struct {
	ID          string
	Date        string
	Description string
	Category    string
	Amount      string
}

type expenseGroup struct {
	Label string
	Total string
	Open  bool
	Rows  []expenseRow
}

// handleExpenseList renders the expense history grouped by month,
// newest month first, with the current month expanded.
func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	expenses, err := s.getExpenses(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load expenses</div>`))
		return
	}

	var data struct {
		Groups []expenseGroup
	}
	for i, g := range core.GroupExpensesByMonth(expenses) {
		var total core.Money
		group := expenseGroup{Label: g.Month.Label(), Open: i == 0}
		for _, e := range g.Expenses {
			total = total.Add(e.Amount)
			group.Rows = append(group.Rows, expenseRow{
				ID:          e.ID,
				Date:        e.Date.Format("02 Jan"),
				Description: e.Description,
				Category:    categoryOrOther(e.Category),
				Amount:      e.Amount.String(),
			})
		}
		group.Total = total.String()
		data.Groups = append(data.Groups, group)
	}

	if err := s.templates.ExecuteTemplate(w, "expense_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "expense_list.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render expenses</div>`))
	}
}

// handleExpenseEditForm swaps a history row for an inline edit form
// pre-populated with the record's current values. Saving posts to
// /expenses/update, which fires expense:changed and reloads the list.
func (s *Server) handleExpenseEditForm(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	id := sanitizeInput(r.URL.Query().Get("id"))
	if id == "" {
		BadRequestError("Expense id is missing").Write(w)
		return
	}

	expenses, err := s.getExpenses(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err, "user_id", sess.UserID)
		ErrorResponse(http.StatusBadGateway, "Could not load expense").Write(w)
		return
	}

	var target *core.Expense
	for i := range expenses {
		if expenses[i].ID == id {
			target = &expenses[i]
			break
		}
	}
	if target == nil {
		ErrorResponse(http.StatusNotFound, "Expense no longer exists").Write(w)
		return
	}

	category := categoryOrOther(target.Category)
	data := struct {
		ID          string
		Amount      string
		Category    string
		Categories  []string
		Date        string
		Description string
	}{
		ID:          target.ID,
		Amount:      fmt.Sprintf("%.2f", target.Amount.Rupees()),
		Category:    category,
		Categories:  expenseCategories(category),
		Date:        target.Date.Format("2006-01-02"),
		Description: target.Description,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "expense_edit.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "expense_edit.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render edit form</div>`))
	}
}

// parseExpenseForm validates and assembles an expense from form values.
// A validation failure returns a ready error response and nil expense,
// before any backend call happens.
func parseExpenseForm(r *http.Request, userID string) (*core.Expense, *HTMXResponseBuilder) {
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	if amountStr == "" {
		return nil, validationError("Amount is required")
	}
	paise, err := core.ParseDecimalToPaise(amountStr)
	if err != nil {
		return nil, validationError("Enter a valid amount")
	}

	category := sanitizeInput(r.Form.Get("category"))
	if category == "" {
		return nil, validationError("Category is required")
	}

	date, err := parseDateField(r.Form.Get("date"))
	if err != nil {
		return nil, validationError("Enter a valid date")
	}

	return &core.Expense{
		UserID:      userID,
		Amount:      core.Money{Paise: paise},
		Category:    category,
		Date:        date,
		Description: sanitizeInput(r.Form.Get("description")),
	}, nil
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	exp, errResp := parseExpenseForm(r, sess.UserID)
	if errResp != nil {
		errResp.Write(w)
		return
	}
	if err := exp.Validate(); err != nil {
		validationError(err.Error()).Write(w)
		return
	}

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.CreateExpense(cctx, *exp); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save expense",
			"error", err,
			"amount_paise", exp.Amount.Paise,
			"category", exp.Category,
			"component", "expense_handler",
			"operation", "create")
		backendError(err, "Could not save expense").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityExpense, Action: bus.ActionCreated, UserID: sess.UserID})

	slog.InfoContext(r.Context(), "Expense created successfully",
		"amount_paise", exp.Amount.Paise,
		"category", exp.Category,
		"user_id", sess.UserID,
		"component", "expense_handler",
		"operation", "create")

	NewHTMXResponse().
		TriggerFormReset().
		TriggerEntityChanged(bus.EntityExpense).
		TriggerSuccessNotification("Expense added: " + exp.Amount.String()).
		Write(w)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		validationError("Expense id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	exp, errResp := parseExpenseForm(r, sess.UserID)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.UpdateExpense(cctx, id, *exp); err != nil {
		slog.ErrorContext(r.Context(), "Failed to update expense", "error", err, "expense_id", id)
		backendError(err, "Could not update expense").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityExpense, Action: bus.ActionUpdated, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityExpense).
		TriggerSuccessNotification("Expense updated").
		Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
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
		validationError("Expense id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.DeleteExpense(cctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete expense", "error", err, "expense_id", id)
		backendError(err, "Could not delete expense").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityExpense, Action: bus.ActionDeleted, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityExpense).
		TriggerSuccessNotification("Expense deleted").
		Write(w)
}
