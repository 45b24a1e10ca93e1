package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spentnest/internal/core"
)

type requestIDContextKey struct{}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseMonthParam reads a YYYY-MM month from query or form values,
// defaulting to the current month.
func parseMonthParam(r *http.Request) core.Month {
	v := strings.TrimSpace(r.URL.Query().Get("month"))
	if v == "" && r.Form != nil {
		v = strings.TrimSpace(r.Form.Get("month"))
	}
	if v == "" {
		return core.CurrentMonth()
	}
	if _, err := time.Parse("2006-01", v); err != nil {
		return core.CurrentMonth()
	}
	return core.Month(v)
}

// parseDateField parses a YYYY-MM-DD form value, defaulting to today
// when empty.
func parseDateField(v string) (core.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return core.Date{Time: time.Now()}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

// categoryOrOther substitutes the fallback category for blank input.
func categoryOrOther(category string) string {
	if strings.TrimSpace(category) == "" {
		return "Other"
	}
	return category
}
