// Package tally holds the aggregate reports: daily tally, monthly progressive
// tally by sector, interview-outcome pivot and mortality by sector.
package tally

import (
	"regexp"
	"strings"
	"time"
)

var datePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Layouts the daily tally also accepts when the text does not start with an ISO date.
var looseLayouts = []string{
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// isoDay returns the YYYY-MM-DD prefix of raw when it is a real calendar date.
func isoDay(raw string) (time.Time, bool) {
	prefix := datePrefix.FindString(raw)
	if prefix == "" {
		return time.Time{}, false
	}
	day, err := time.Parse("2006-01-02", prefix)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// interviewDay truncates a free-text interview timestamp to its calendar day.
func interviewDay(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if day, ok := isoDay(raw); ok {
		return day.Format("2006-01-02"), true
	}
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// interviewMonth truncates to the calendar month. Only text with a well-formed
// YYYY-MM-DD prefix qualifies.
func interviewMonth(raw string) (string, bool) {
	day, ok := isoDay(raw)
	if !ok {
		return "", false
	}
	return day.Format("2006-01"), true
}
