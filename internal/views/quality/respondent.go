package quality

import (
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

type RespondentSummary struct {
	Checked      int
	Flagged      int
	Name         int
	Relationship int
	Members      int
}

// AuditRespondents flags households missing the respondent name,
// the respondent relationship or the household member count. Each null is
// counted against its own field.
func AuditRespondents(households []survey.Classified) ([]survey.Classified, RespondentSummary) {
	var summary RespondentSummary
	flagged := make([]survey.Classified, 0)

	for _, h := range households {
		summary.Checked++
		missing := false
		if h.RespondentName == nil {
			summary.Name++
			missing = true
		}
		if h.RespondentRelationship == nil {
			summary.Relationship++
			missing = true
		}
		if h.TotalMembers == nil {
			summary.Members++
			missing = true
		}
		if missing {
			flagged = append(flagged, h)
		}
	}

	sortByLocation(flagged, func(h survey.Classified) *survey.Household { return &h.Household })
	summary.Flagged = len(flagged)
	return flagged, summary
}

type RespondentCheck struct{}

func (RespondentCheck) Name() string { return "missing_respondent" }

func (c RespondentCheck) Compute(in *views.Input) (*views.Result, error) {
	flagged, summary := AuditRespondents(in.Consenting())

	detail := report.NewTable(c.Name(), "Missing respondent details",
		"key", "village", "location_number", "dwelling_number", "collector",
		"respondent_name", "respondent_relationship", "total_members")
	for _, h := range flagged {
		detail.Append(h.Key, h.Village, h.LocationNumber, h.DwellingNumber, h.Collector,
			h.RespondentName, h.RespondentRelationship, h.TotalMembers)
	}

	totals := report.NewTable(c.Name()+"_summary", "Missing respondent counts", "field", "missing")
	totals.Append("respondent_name", summary.Name)
	totals.Append("respondent_relationship", summary.Relationship)
	totals.Append("total_members", summary.Members)

	return &views.Result{
		Tables: []*report.Table{detail, totals},
		Stats:  []report.Stat{{Label: "Households missing respondent details", Count: summary.Flagged, Of: summary.Checked}},
	}, nil
}
