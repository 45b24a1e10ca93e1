package http

import (
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"spentnest/internal/bus"
	"spentnest/internal/core"
)

type savingRow struct {
	ID    string
	Month string
	Goal  string
	Saved string
}

// handleSavingsPanel renders the current month's goal and saved amounts
// plus the full history. A month with no record shows zero values.
func (s *Server) handleSavingsPanel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())
	month := parseMonthParam(r)

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	current, err := s.backend.SavingForMonth(cctx, sess.UserID, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Fetch savings error", "error", err, "user_id", sess.UserID, "month", month)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load savings</div>`))
		return
	}

	history, err := s.getSavings(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "List savings error", "error", err, "user_id", sess.UserID)
		history = nil
	}
	sort.SliceStable(history, func(i, j int) bool { return history[i].Month > history[j].Month })

	var data struct {
		MonthLabel string
		Goal       string
		Saved      string
		Percent    int
		Rows       []savingRow
	}
	data.MonthLabel = month.Label()
	data.Goal = current.Goal.String()
	data.Saved = current.Saved.String()
	if current.Goal.Paise > 0 {
		data.Percent = int(float64(current.Saved.Paise) / float64(current.Goal.Paise) * 100)
		if data.Percent > 100 {
			data.Percent = 100
		}
	}
	for _, sv := range history {
		data.Rows = append(data.Rows, savingRow{
			ID:    sv.ID,
			Month: sv.Month.Label(),
			Goal:  sv.Goal.String(),
			Saved: sv.Saved.String(),
		})
	}

	if err := s.templates.ExecuteTemplate(w, "savings_panel.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "savings_panel.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render savings</div>`))
	}
}

// handleSaveSaving records a month's goal and saved amounts. Re-saving
// the same month overwrites the previous record.
func (s *Server) handleSaveSaving(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	sess := sessionFrom(r.Context())

	goalStr := strings.TrimSpace(r.Form.Get("goal"))
	savedStr := strings.TrimSpace(r.Form.Get("saved"))
	if goalStr == "" && savedStr == "" {
		validationError("Enter a goal or saved amount").Write(w)
		return
	}

	var goal, saved int64
	var err error
	if goalStr != "" {
		if goal, err = core.ParseDecimalToPaise(goalStr); err != nil {
			validationError("Enter a valid goal amount").Write(w)
			return
		}
	}
	if savedStr != "" {
		if saved, err = core.ParseDecimalToPaise(savedStr); err != nil {
			validationError("Enter a valid saved amount").Write(w)
			return
		}
	}

	saving := core.Saving{
		UserID: sess.UserID,
		Goal:   core.Money{Paise: goal},
		Saved:  core.Money{Paise: saved},
		Month:  parseMonthParam(r),
	}
	if err := saving.Validate(); err != nil {
		validationError(err.Error()).Write(w)
		return
	}

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.CreateSaving(cctx, saving); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save savings",
			"error", err,
			"month", saving.Month,
			"component", "savings_handler",
			"operation", "create")
		backendError(err, "Could not save savings").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntitySaving, Action: bus.ActionCreated, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerFormReset().
		TriggerEntityChanged(bus.EntitySaving).
		TriggerSuccessNotification("Savings updated for " + saving.Month.Label()).
		Write(w)
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request) {
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
		validationError("Savings id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.DeleteSaving(cctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete saving", "error", err, "saving_id", id)
		backendError(err, "Could not delete savings record").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntitySaving, Action: bus.ActionDeleted, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntitySaving).
		TriggerSuccessNotification("Savings record deleted").
		Write(w)
}
