package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateUnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string // YYYY-MM-DD, empty for zero
		ok   bool
	}{
		{`"2024-05-02"`, "2024-05-02", true},
		{`"2024-05-02T00:00:00.000Z"`, "2024-05-02", true},
		{`""`, "", true},
		{`null`, "", true},
		{`"02/05/2024"`, "", false},
	}
	for _, tc := range cases {
		var d Date
		err := json.Unmarshal([]byte(tc.in), &d)
		if !tc.ok {
			if err == nil {
				t.Fatalf("%s expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if tc.want == "" {
			if !d.IsZero() {
				t.Fatalf("%s expected zero date, got %v", tc.in, d)
			}
			continue
		}
		if got := d.Format("2006-01-02"); got != tc.want {
			t.Fatalf("%s expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestDateMonthKey(t *testing.T) {
	d := NewDate(2024, 5, 2)
	if got := d.MonthKey(); got != Month("2024-05") {
		t.Fatalf("expected 2024-05, got %s", got)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := Month("2024-05").Label(); got != "May 2024" {
		t.Fatalf("expected May 2024, got %q", got)
	}
	// Malformed keys pass through untouched.
	if got := Month("garbage").Label(); got != "garbage" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Amount:   Money{Paise: 100},
		Category: "Food",
		Date:     NewDate(2024, 5, 2),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Category: "Food", Date: NewDate(2024, 5, 2)},                          // no amount
		{Amount: Money{Paise: 100}, Date: NewDate(2024, 5, 2)},                 // no category
		{Amount: Money{Paise: 100}, Category: "Food", Date: Date{time.Time{}}}, // no date
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDueValidate(t *testing.T) {
	good := Due{
		Type:       Lent,
		PersonName: "Asha",
		Amount:     Money{Paise: 50000},
		Date:       NewDate(2024, 5, 2),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Due{Amount: Money{Paise: 1}, Date: NewDate(2024, 5, 2)}).Validate(); err == nil {
		t.Fatalf("expected error for missing person name")
	}
}

func TestBudgetAndIncomeValidate(t *testing.T) {
	if err := (Budget{Category: "Food", Amount: Money{Paise: 100}, Month: "2024-05"}).Validate(); err != nil {
		t.Fatalf("budget: %v", err)
	}
	if err := (Budget{Amount: Money{Paise: 100}, Month: "2024-05"}).Validate(); err == nil {
		t.Fatalf("budget missing category should fail")
	}
	if err := (Income{Amount: Money{Paise: 100}, Month: "2024-05"}).Validate(); err != nil {
		t.Fatalf("income: %v", err)
	}
	if err := (Income{Amount: Money{Paise: 100}}).Validate(); err == nil {
		t.Fatalf("income missing month should fail")
	}
}
