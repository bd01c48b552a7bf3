package quality

import (
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

// GPSSummary counts missing and inaccurate fixes per GPS kind. The counters
// are independent: one household can add to several of them.
type GPSSummary struct {
	Checked    int
	Flagged    int
	Missing    map[survey.GPSKind]int
	Inaccurate map[survey.GPSKind]int
}

// AuditGPS flags households where any of the three fixes is incomplete,
// inaccurate or has no accuracy reading. Every household passed in is checked.
func AuditGPS(households []survey.Classified) ([]survey.Classified, GPSSummary) {
	summary := GPSSummary{
		Missing:    make(map[survey.GPSKind]int, len(survey.GPSKinds)),
		Inaccurate: make(map[survey.GPSKind]int, len(survey.GPSKinds)),
	}
	flagged := make([]survey.Classified, 0)

	for _, h := range households {
		summary.Checked++
		good := true
		for _, kind := range survey.GPSKinds {
			labels := h.Fixes[kind]
			if labels.Completeness == survey.Missing {
				summary.Missing[kind]++
			}
			if labels.Accuracy == survey.Inaccurate {
				summary.Inaccurate[kind]++
			}
			if !labels.Good() {
				good = false
			}
		}
		if !good {
			flagged = append(flagged, h)
		}
	}

	sortByLocation(flagged, func(h survey.Classified) *survey.Household { return &h.Household })
	summary.Flagged = len(flagged)
	return flagged, summary
}

type GPSCheck struct{}

func (GPSCheck) Name() string { return "gps_defects" }

func (c GPSCheck) Compute(in *views.Input) (*views.Result, error) {
	flagged, summary := AuditGPS(in.Consenting())

	columns := []string{"key", "village", "location_number", "dwelling_number", "collector"}
	for _, kind := range survey.GPSKinds {
		prefix := gpsPrefix(kind)
		columns = append(columns, prefix+"_completeness", prefix+"_accuracy", prefix+"_accuracy_m")
	}
	detail := report.NewTable(c.Name(), "GPS defects", columns...)
	for _, h := range flagged {
		row := []any{h.Key, h.Village, h.LocationNumber, h.DwellingNumber, h.Collector}
		for _, kind := range survey.GPSKinds {
			labels := h.Fixes[kind]
			row = append(row, labels.Completeness, labels.Accuracy, h.Fix(kind).Accuracy)
		}
		detail.Append(row...)
	}

	totals := report.NewTable(c.Name()+"_summary", "GPS defect counts", "gps_type", "missing", "inaccurate")
	for _, kind := range survey.GPSKinds {
		totals.Append(string(kind), summary.Missing[kind], summary.Inaccurate[kind])
	}

	return &views.Result{
		Tables: []*report.Table{detail, totals},
		Stats:  []report.Stat{{Label: "Households with GPS defects", Count: summary.Flagged, Of: summary.Checked}},
	}, nil
}

func gpsPrefix(kind survey.GPSKind) string {
	switch kind {
	case survey.GPSWater:
		return "water"
	case survey.GPSToilet:
		return "toilet"
	default:
		return "hh"
	}
}
