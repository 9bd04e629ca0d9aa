package leasing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
)

// EndingSoonThreshold is the number of remaining days at or below which an
// active lease is reported as ending soon.
const EndingSoonThreshold = 30

// Status is the temporal state of a lease relative to a given day
type Status string

const (
	StatusNoLease    Status = "no_lease"
	StatusUpcoming   Status = "upcoming"
	StatusActive     Status = "active"
	StatusEndingSoon Status = "ending_soon"
	StatusExpired    Status = "expired"
)

// AllStatuses lists every status in display order
var AllStatuses = []Status{StatusActive, StatusEndingSoon, StatusUpcoming, StatusExpired, StatusNoLease}

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNoLease, StatusUpcoming, StatusActive, StatusEndingSoon, StatusExpired:
		return true
	}
	return false
}

// IsCurrent reports whether the status describes the lease governing occupancy today
func (s Status) IsCurrent() bool {
	return s == StatusActive || s == StatusEndingSoon
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// DateRange is a possibly incomplete lease period. A nil bound means the date
// is missing on the record.
type DateRange struct {
	Start *civil.Date
	End   *civil.Date
}

// NewDateRange builds a complete DateRange
func NewDateRange(start, end civil.Date) DateRange {
	return DateRange{Start: &start, End: &end}
}

// bounds returns both dates when they are present and valid
func (r DateRange) bounds() (civil.Date, civil.Date, bool) {
	if r.Start == nil || r.End == nil || !r.Start.IsValid() || !r.End.IsValid() {
		return civil.Date{}, civil.Date{}, false
	}
	return *r.Start, *r.End, true
}

// IsComplete reports whether both bounds are present and valid
func (r DateRange) IsComplete() bool {
	_, _, ok := r.bounds()
	return ok
}

// Overlaps reports whether two complete ranges share at least one day.
// Both ends are inclusive.
func (r DateRange) Overlaps(other DateRange) bool {
	s1, e1, ok1 := r.bounds()
	s2, e2, ok2 := other.bounds()
	if !ok1 || !ok2 || e1.Before(s1) || e2.Before(s2) {
		return false
	}
	return !s1.After(e2) && !s2.After(e1)
}

// Progress holds the elapsed/remaining metrics of a lease
type Progress struct {
	TotalDays     int     `json:"total_days"`
	ElapsedDays   int     `json:"elapsed_days"`
	Percent       float64 `json:"percent"`
	DaysRemaining int     `json:"days_remaining"`
}

// DisplayDaysRemaining returns DaysRemaining floored at zero
func (p Progress) DisplayDaysRemaining() int {
	return max(0, p.DaysRemaining)
}

// ClassifyStatus returns the status of a lease period on day now.
// The checks run in a fixed order and the first match wins.
func ClassifyStatus(lease DateRange, now civil.Date) Status {
	start, end, ok := lease.bounds()
	if !ok {
		return StatusNoLease
	}
	if now.Before(start) {
		return StatusUpcoming
	}
	if now.After(end) {
		return StatusExpired
	}
	if end.DaysSince(now) <= EndingSoonThreshold {
		return StatusEndingSoon
	}
	return StatusActive
}

// ClassifyStatusStrings classifies a lease whose dates are raw strings.
// Unparseable or empty values degrade to StatusNoLease.
func ClassifyStatusStrings(start, end string, now civil.Date) Status {
	return ClassifyStatus(ParseDateRange(start, end), now)
}

// ParseDateRange parses both bounds leniently; a bound that fails to parse is nil
func ParseDateRange(start, end string) DateRange {
	var r DateRange
	if d, err := ParseDay(start); err == nil {
		r.Start = &d
	}
	if d, err := ParseDay(end); err == nil {
		r.End = &d
	}
	return r
}

// ParseDay parses an ISO calendar date ("2006-01-02"). RFC 3339 timestamps
// are accepted and reduced to their date part.
func ParseDay(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, fmt.Errorf("empty date")
	}
	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return civil.Date{}, fmt.Errorf("invalid date %q", s)
	}
	return civil.ParseDate(s[:10])
}

// ComputeProgress returns elapsed and remaining metrics for a lease on day now.
// Missing or invalid dates, and a range ending before it starts, produce
// zero metrics.
func ComputeProgress(lease DateRange, now civil.Date) Progress {
	start, end, ok := lease.bounds()
	if !ok || end.Before(start) {
		return Progress{}
	}

	total := end.DaysSince(start)
	elapsed := max(0, now.DaysSince(start))

	var percent float64
	if total > 0 {
		percent = float64(elapsed) / float64(total) * 100
		percent = math.Min(100, math.Max(0, percent))
		percent = math.Round(percent*100) / 100
	}

	return Progress{
		TotalDays:     total,
		ElapsedDays:   elapsed,
		Percent:       percent,
		DaysRemaining: end.DaysSince(now),
	}
}

// ValidateDateRange validates raw start and end strings before a lease is persisted.
// It returns an error matching ErrInvalidRange or ErrEndBeforeStart.
func ValidateDateRange(start, end string) error {
	s, err := ParseDay(start)
	if err != nil {
		return shared.NewDomainError(CodeInvalidRange, fmt.Sprintf("Lease start %q is not a valid date", start))
	}
	e, err := ParseDay(end)
	if err != nil {
		return shared.NewDomainError(CodeInvalidRange, fmt.Sprintf("Lease end %q is not a valid date", end))
	}
	return ValidateRange(s, e)
}

// ValidateRange validates a parsed lease period. Equal dates are rejected.
func ValidateRange(start, end civil.Date) error {
	if !start.IsValid() || !end.IsValid() {
		return ErrInvalidRange
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// NextPaymentDate returns the next rent due date on or after now. Only
// monthly leases with a due day have a schedule; anything else yields nil.
// A due day past the end of a short month falls on that month's last day.
func NextPaymentDate(terms PaymentTerms, now civil.Date) *civil.Date {
	if terms.Frequency != FrequencyMonthly || terms.DueDay == nil || !now.IsValid() {
		return nil
	}
	day := *terms.DueDay
	if day < 1 || day > 31 {
		return nil
	}

	due := dueDateIn(now.Year, now.Month, day)
	if due.Before(now) {
		year, month := now.Year, now.Month+1
		if month > time.December {
			year, month = year+1, time.January
		}
		due = dueDateIn(year, month, day)
	}
	return &due
}

func dueDateIn(year int, month time.Month, day int) civil.Date {
	return civil.Date{Year: year, Month: month, Day: min(day, daysIn(year, month))}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
