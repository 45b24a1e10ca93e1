package http

import (
	"log/slog"
	"net/http"
	"strings"
)

// handleExportSheets appends the signed-in user's expense history to the
// configured Google Sheet.
func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError("POST").Write(w)
		return
	}
	if s.exporter == nil {
		validationError("Spreadsheet export is not configured").Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	sess := sessionFrom(r.Context())
	expenses, err := s.getExpenses(r.Context(), sess)
	if err != nil {
		slog.ErrorContext(r.Context(), "Export list error", "error", err, "user_id", sess.UserID)
		backendError(err, "Could not load expenses for export").Write(w)
		return
	}
	if len(expenses) == 0 {
		validationError("No expenses to export").Write(w)
		return
	}

	sheetName := strings.TrimSpace(r.Form.Get("sheet"))
	if err := s.exporter.AppendExpenses(r.Context(), sheetName, expenses); err != nil {
		slog.ErrorContext(r.Context(), "Sheets export failed",
			"error", err,
			"user_id", sess.UserID,
			"count", len(expenses),
			"component", "export",
			"operation", "export")
		NewHTMXResponse().
			Status(http.StatusBadGateway).
			TriggerErrorNotification("Export failed. Try again later.").
			Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Expenses exported",
		"user_id", sess.UserID,
		"count", len(expenses),
		"component", "export",
		"operation", "export")

	NewHTMXResponse().
		TriggerSuccessNotification("Exported expenses to Google Sheets").
		Write(w)
}
