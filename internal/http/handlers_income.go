package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"spentnest/internal/bus"
	"spentnest/internal/core"
)

type incomeRow struct {
	ID     string
	Month  string
	Amount string
}

// handleIncomeList renders income records, newest month first, with the
// total across all months.
func (s *Server) handleIncomeList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	incomes, err := s.getIncomes(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "List income error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load income</div>`))
		return
	}

	sort.SliceStable(incomes, func(i, j int) bool { return incomes[i].Month > incomes[j].Month })

	var total core.Money
	var data struct {
		Total string
		Rows  []incomeRow
	}
	for _, in := range incomes {
		total = total.Add(in.Amount)
		data.Rows = append(data.Rows, incomeRow{
			ID:     in.ID,
			Month:  in.Month.Label(),
			Amount: in.Amount.String(),
		})
	}
	data.Total = total.String()

	if err := s.templates.ExecuteTemplate(w, "income_list.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "income_list.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render income</div>`))
	}
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
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

	income := core.Income{
		UserID: sess.UserID,
		Amount: core.Money{Paise: paise},
		Month:  parseMonthParam(r),
	}
	if err := income.Validate(); err != nil {
		validationError(err.Error()).Write(w)
		return
	}

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.CreateIncome(cctx, income); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save income",
			"error", err,
			"amount_paise", income.Amount.Paise,
			"month", income.Month,
			"component", "income_handler",
			"operation", "create")
		backendError(err, "Could not save income").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityIncome, Action: bus.ActionCreated, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerFormReset().
		TriggerEntityChanged(bus.EntityIncome).
		TriggerSuccessNotification("Income added: " + income.Amount.String()).
		Write(w)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
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
		validationError("Income id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.DeleteIncome(cctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete income", "error", err, "income_id", id)
		backendError(err, "Could not delete income").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityIncome, Action: bus.ActionDeleted, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityIncome).
		TriggerSuccessNotification("Income deleted").
		Write(w)
}
