package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Lent     DueType = "LENT"
	Borrowed DueType = "BORROW"

	Pending DueStatus = "PENDING"
	Done    DueStatus = "DONE"
)

type (
	DueType   string
	DueStatus string

	// Month is a year-month key in YYYY-MM form.
	Month string

	// Date wraps time.Time at day granularity.
	Date struct {
		time.Time
	}

	Expense struct {
		ID          string `json:"_id"`
		UserID      string `json:"userId"`
		Amount      Money  `json:"amount"`
		Category    string `json:"category"`
		Date        Date   `json:"date"`
		Description string `json:"description"`
	}

	Budget struct {
		ID       string `json:"_id"`
		UserID   string `json:"userId"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Month    Month  `json:"month"`
		// Remaining is computed by the backend (budget minus spent).
		Remaining Money `json:"remainingAmount"`
	}

	Income struct {
		ID     string `json:"_id"`
		UserID string `json:"userId"`
		Amount Money  `json:"amount"`
		Month  Month  `json:"month"`
	}

	Saving struct {
		ID     string `json:"_id"`
		UserID string `json:"userId"`
		Goal   Money  `json:"goal"`
		Saved  Money  `json:"saved"`
		Month  Month  `json:"month"`
	}

	Due struct {
		ID                 string    `json:"_id"`
		UserID             string    `json:"userId"`
		Type               DueType   `json:"type"`
		PersonName         string    `json:"personName"`
		Amount             Money     `json:"amount"`
		Category           string    `json:"category"`
		Date               Date      `json:"date"`
		ExpectedReturnDate Date      `json:"expectedReturnDate"`
		Notes              string    `json:"notes"`
		Status             DueStatus `json:"status"`
	}
)

var (
	ErrEmptyAmount     = errors.New("empty amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrEmptyDate       = errors.New("empty date")
	ErrEmptyMonth      = errors.New("empty month")
	ErrEmptyPersonName = errors.New("empty person name")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// MonthOf returns the YYYY-MM key for a point in time.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// CurrentMonth returns the YYYY-MM key for now.
func CurrentMonth() Month {
	return MonthOf(time.Now())
}

// Label renders the month in human-readable form, e.g. "May 2024".
// Malformed keys are returned verbatim.
func (m Month) Label() string {
	t, err := time.Parse("2006-01", string(m))
	if err != nil {
		return string(m)
	}
	return t.Format("Jan 2006")
}

func (m Month) Validate() error {
	if strings.TrimSpace(string(m)) == "" {
		return ErrEmptyMonth
	}
	return nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// MonthKey returns the YYYY-MM key the date falls in.
func (d Date) MonthKey() Month {
	return MonthOf(d.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrEmptyDate
	}
	return nil
}

// UnmarshalJSON accepts YYYY-MM-DD and RFC3339 timestamps; null and the
// empty string decode to the zero date (optional fields like expected
// return dates arrive empty).
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// Validation is presence-only: the backend owns type/range/format rules.

func (e Expense) Validate() error {
	if e.Amount.IsZero() {
		return ErrEmptyAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Amount.IsZero() {
		return ErrEmptyAmount
	}
	return b.Month.Validate()
}

func (i Income) Validate() error {
	if i.Amount.IsZero() {
		return ErrEmptyAmount
	}
	return i.Month.Validate()
}

func (s Saving) Validate() error {
	return s.Month.Validate()
}

func (d Due) Validate() error {
	if strings.TrimSpace(d.PersonName) == "" {
		return ErrEmptyPersonName
	}
	if d.Amount.IsZero() {
		return ErrEmptyAmount
	}
	return d.Date.Validate()
}
