package http

import (
	"log/slog"
	"net/http"
	"strings"

	"spentnest/internal/bus"
	"spentnest/internal/core"
)

type dueRow struct {
	ID         string
	PersonName string
	Amount     string
	Lent       bool
	Pending    bool
	Date       string
	Expected   string
	Notes      string
}

// handleDuesPanel renders the dues list with the receivable/owed totals
// above it. Only pending dues count toward the totals.
func (s *Server) handleDuesPanel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	sess := sessionFrom(r.Context())

	dues, err := s.getDues(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "List dues error", "error", err, "user_id", sess.UserID)
		_, _ = w.Write([]byte(`<div class="placeholder">Could not load dues</div>`))
		return
	}

	summary := core.SummarizeDues(dues)
	var data struct {
		Receivable string
		Owed       string
		Rows       []dueRow
	}
	data.Receivable = summary.Receivable.String()
	data.Owed = summary.Owed.String()
	for _, d := range dues {
		row := dueRow{
			ID:         d.ID,
			PersonName: d.PersonName,
			Amount:     d.Amount.String(),
			Lent:       d.Type == core.Lent,
			Pending:    d.Status == core.Pending,
			Notes:      d.Notes,
		}
		if !d.Date.IsZero() {
			row.Date = d.Date.Format("02 Jan 2006")
		}
		if !d.ExpectedReturnDate.IsZero() {
			row.Expected = d.ExpectedReturnDate.Format("02 Jan 2006")
		}
		data.Rows = append(data.Rows, row)
	}

	if err := s.templates.ExecuteTemplate(w, "dues_panel.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dues_panel.html")
		_, _ = w.Write([]byte(`<div class="placeholder">Could not render dues</div>`))
	}
}

func (s *Server) handleCreateDue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	sess := sessionFrom(r.Context())

	person := sanitizeInput(r.Form.Get("personName"))
	if person == "" {
		validationError("Person name is required").Write(w)
		return
	}

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

	dueType := core.Lent
	if strings.EqualFold(strings.TrimSpace(r.Form.Get("type")), string(core.Borrowed)) {
		dueType = core.Borrowed
	}

	date, err := parseDateField(r.Form.Get("date"))
	if err != nil {
		validationError("Enter a valid date").Write(w)
		return
	}
	expected, err := parseDateField(r.Form.Get("expectedReturnDate"))
	if err != nil {
		validationError("Enter a valid return date").Write(w)
		return
	}
	if strings.TrimSpace(r.Form.Get("expectedReturnDate")) == "" {
		expected = core.Date{}
	}

	due := core.Due{
		UserID:             sess.UserID,
		Type:               dueType,
		PersonName:         person,
		Amount:             core.Money{Paise: paise},
		Category:           categoryOrOther(sanitizeInput(r.Form.Get("category"))),
		Date:               date,
		ExpectedReturnDate: expected,
		Notes:              sanitizeInput(r.Form.Get("notes")),
		Status:             core.Pending,
	}
	if err := due.Validate(); err != nil {
		validationError(err.Error()).Write(w)
		return
	}

	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.CreateDue(cctx, due); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save due",
			"error", err,
			"person", due.PersonName,
			"amount_paise", due.Amount.Paise,
			"component", "dues_handler",
			"operation", "create")
		backendError(err, "Could not save due").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityDue, Action: bus.ActionCreated, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerFormReset().
		TriggerEntityChanged(bus.EntityDue).
		TriggerSuccessNotification("Due recorded for " + due.PersonName).
		Write(w)
}

// handleMarkDueDone settles a pending due. The record stays in the list
// but stops counting toward the totals.
func (s *Server) handleMarkDueDone(w http.ResponseWriter, r *http.Request) {
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
		validationError("Due id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.MarkDueDone(cctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to settle due", "error", err, "due_id", id)
		backendError(err, "Could not mark due as done").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityDue, Action: bus.ActionSettled, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityDue).
		TriggerSuccessNotification("Due settled").
		Write(w)
}

func (s *Server) handleDeleteDue(w http.ResponseWriter, r *http.Request) {
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
		validationError("Due id is missing").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	cctx, cancel := s.apiCtx(r.Context(), sess)
	defer cancel()
	if err := s.backend.DeleteDue(cctx, id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to delete due", "error", err, "due_id", id)
		backendError(err, "Could not delete due").Write(w)
		return
	}

	s.events.Publish(r.Context(), bus.Event{Entity: bus.EntityDue, Action: bus.ActionDeleted, UserID: sess.UserID})

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityDue).
		TriggerSuccessNotification("Due deleted").
		Write(w)
}
