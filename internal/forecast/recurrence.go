// Package forecast expands recurrence rules into dated cash flows and
// derives projections, summaries, payoff recommendations and payment
// calendars from them. Every function is pure: "today" is always passed in
// and no state survives between calls.
package forecast

import (
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// MaxOccurrences bounds how many dates a single rule may produce in one
// expansion. It is also what stops a rule that can never leave its window.
const MaxOccurrences = 50

// Day returns the calendar date of t as midnight UTC
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampedDate builds year/month/day, pulling day back to the month's last day
func clampedDate(year int, month time.Month, day int) time.Time {
	// normalize month overflow (13 -> January of next year)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	if last := DaysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// anchorDay is the day of month a monthly rule lands on
func anchorDay(rule models.RecurrenceRule) int {
	if rule.AnchorDay != nil {
		return *rule.AnchorDay
	}
	return rule.StartDate.Day()
}

// step advances d by one period of the rule. ok is false when the rule's
// frequency cannot move the date forward.
func step(rule models.RecurrenceRule, d time.Time) (time.Time, bool) {
	switch rule.Frequency {
	case models.FrequencyWeekly:
		return d.AddDate(0, 0, 7), true
	case models.FrequencyBiWeekly:
		return d.AddDate(0, 0, 14), true
	case models.FrequencyMonthly:
		return clampedDate(d.Year(), d.Month()+1, anchorDay(rule)), true
	case models.FrequencyYearly:
		return clampedDate(d.Year()+1, d.Month(), rule.StartDate.Day()), true
	}
	return d, false
}

// NextOccurrence returns the first date on or after today the rule fires.
// ok is false when the rule has no such date.
func NextOccurrence(rule models.RecurrenceRule, today time.Time) (time.Time, bool) {
	today = Day(today)
	if rule.SpecificDate != nil {
		date := Day(*rule.SpecificDate)
		if date.Before(today) {
			return time.Time{}, false
		}
		return date, true
	}

	date := Day(rule.StartDate)
	for date.Before(today) {
		next, ok := step(rule, date)
		if !ok {
			return time.Time{}, false
		}
		date = next
	}
	return date, true
}

// Expand lists the rule's occurrence dates from today through windowEnd,
// in ascending order, dropping anything after the rule's end date.
func Expand(rule models.RecurrenceRule, windowEnd, today time.Time) []time.Time {
	date, ok := NextOccurrence(rule, today)
	if !ok {
		return nil
	}

	end := Day(windowEnd)
	var last *time.Time
	if rule.EndDate != nil {
		d := Day(*rule.EndDate)
		last = &d
	}

	var dates []time.Time
	for count := 0; count < MaxOccurrences && !date.After(end); count++ {
		if last != nil && date.After(*last) {
			break
		}
		dates = append(dates, date)
		if rule.SingleOccurrence() {
			break
		}
		next, ok := step(rule, date)
		if !ok {
			break
		}
		date = next
	}
	return dates
}
