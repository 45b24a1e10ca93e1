package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spentnest/internal/bus"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyHTML("<p>ok</p>").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "<p>ok</p>" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "<p>ok</p>")
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerEntityChanged(bus.EntityExpense).
		TriggerFormReset().
		TriggerSuccessNotification("Expense added").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	if trigger == "" {
		t.Fatal("HX-Trigger header not set")
	}

	expectedParts := []string{
		`"expense:changed"`,
		`"form:reset"`,
		`"show-notification"`,
		`"type":"success"`,
		`"duration":3000`,
		`"sound":true`,
		`"message":"Expense added"`,
	}
	for _, part := range expectedParts {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_ErrorNotificationIsSilent(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerErrorNotification("Could not save expense").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	for _, part := range []string{`"type":"error"`, `"duration":3000`, `"sound":false`} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_Redirect(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().Redirect("/dashboard").Write(w)

	if got := w.Header().Get("HX-Redirect"); got != "/dashboard" {
		t.Errorf("HX-Redirect = %q, want /dashboard", got)
	}
}

func TestErrorResponseEscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()

	BadRequestError("<script>alert(1)</script>").Write(w)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", w.Code)
	}
	if strings.Contains(w.Body.String(), "<script>") {
		t.Errorf("error body not escaped: %s", w.Body.String())
	}
}

func TestMethodNotAllowedSetsAllowHeader(t *testing.T) {
	w := httptest.NewRecorder()

	MethodNotAllowedError("POST, DELETE").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status = %d, want 405", w.Code)
	}
	if got := w.Header().Get("Allow"); got != "POST, DELETE" {
		t.Errorf("Allow = %q, want %q", got, "POST, DELETE")
	}
}
