package payroll

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/smart-hr-go/internal/pkg/validator"
)

// Period is the calendar month a disbursement belongs to.
type Period struct {
	Month time.Month
	Year  int
}

func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// MonthLabel returns the short month name, e.g. "Dec".
func (p Period) MonthLabel() string {
	return MonthLabel(p.Month)
}

// Label returns e.g. "Dec 2025".
func (p Period) Label() string {
	return fmt.Sprintf("%s %d", p.MonthLabel(), p.Year)
}

func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// FormatDate renders a day-precision date as d/m/yyyy without zero padding.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// ParseDate reads a d/m/yyyy date field by field. Zero padded days and months
// are accepted.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRecordDate, s)
	}

	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRecordDate, s)
		}
		fields[i] = v
	}
	day, month, year := fields[0], fields[1], fields[2]

	if month < 1 || month > 12 || day < 1 || year < 1 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRecordDate, s)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRecordDate, s)
	}
	return t, nil
}

// ResolvePaymentDate returns the nominal payment date of an attempt: the
// submitted date when present, otherwise today in loc. Submitted dates may be
// YYYY-MM-DD or d/m/yyyy.
func ResolvePaymentDate(submitted string, now time.Time, loc *time.Location) (time.Time, error) {
	submitted = strings.TrimSpace(submitted)
	if submitted == "" {
		if loc != nil {
			now = now.In(loc)
		}
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	if t, ok := validator.IsValidDate(submitted); ok {
		return t, nil
	}
	if t, err := ParseDate(submitted); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPaymentDate, submitted)
}
