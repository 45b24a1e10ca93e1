package http

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"spentnest/internal/core"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  lunch  ", "lunch"},
		{"a\x00b", "ab"},
		{"line1\nline2", "line1\nline2"},
		{"tab\there", "tab\there"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMonthParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/ui/summary?month=2024-03", nil)
	if got := parseMonthParam(r); got != core.Month("2024-03") {
		t.Errorf("month = %q, want 2024-03", got)
	}

	r = httptest.NewRequest("GET", "/ui/summary?month=bogus", nil)
	if got := parseMonthParam(r); got != core.CurrentMonth() {
		t.Errorf("invalid month should fall back to current, got %q", got)
	}

	r = httptest.NewRequest("GET", "/ui/summary", nil)
	if got := parseMonthParam(r); got != core.CurrentMonth() {
		t.Errorf("missing month should fall back to current, got %q", got)
	}

	r = httptest.NewRequest("POST", "/budgets", nil)
	r.Form = url.Values{"month": {"2023-12"}}
	if got := parseMonthParam(r); got != core.Month("2023-12") {
		t.Errorf("form month = %q, want 2023-12", got)
	}
}

func TestParseDateField(t *testing.T) {
	d, err := parseDateField("2024-05-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.May || d.Day() != 2 {
		t.Errorf("unexpected date %v", d)
	}

	d, err = parseDateField("")
	if err != nil {
		t.Fatalf("empty date should default to today, got error %v", err)
	}
	now := time.Now()
	if d.Year() != now.Year() || d.Month() != now.Month() || d.Day() != now.Day() {
		t.Errorf("empty date = %v, want today", d)
	}

	if _, err := parseDateField("02/05/2024"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestCategoryOrOther(t *testing.T) {
	if got := categoryOrOther("Food"); got != "Food" {
		t.Errorf("got %q, want Food", got)
	}
	if got := categoryOrOther("   "); got != "Other" {
		t.Errorf("got %q, want Other", got)
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := generateRequestID(), generateRequestID()
	if a == b {
		t.Error("request ids should be unique")
	}
	if len(a) < 5 || a[:4] != "req_" {
		t.Errorf("unexpected request id format %q", a)
	}
}
