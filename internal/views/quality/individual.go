package quality

import (
	"sort"

	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

// IndividualDefect is a roster line with missing demographics, together with
// the household that owns it.
type IndividualDefect struct {
	Individual survey.Individual
	Household  survey.Classified
}

type IndividualSummary struct {
	Checked   int
	Flagged   int
	FirstName int
	LastName  int
	Sex       int
}

// AuditIndividuals flags individuals of the given households that have a
// roster line number but no first name, last name or sex. Individuals without
// a line number are not roster entries and are skipped, as are individuals
// whose household is not in households.
func AuditIndividuals(households []survey.Classified, individuals []survey.Individual) ([]IndividualDefect, IndividualSummary) {
	owners := make(map[string]survey.Classified, len(households))
	for _, h := range households {
		owners[h.Key] = h
	}

	var summary IndividualSummary
	flagged := make([]IndividualDefect, 0)
	for _, ind := range individuals {
		owner, ok := owners[ind.ParentKey]
		if !ok || ind.LineNumber == nil {
			continue
		}
		summary.Checked++

		missing := false
		if ind.FirstName == nil {
			summary.FirstName++
			missing = true
		}
		if ind.LastName == nil {
			summary.LastName++
			missing = true
		}
		if ind.Sex == nil {
			summary.Sex++
			missing = true
		}
		if missing {
			flagged = append(flagged, IndividualDefect{Individual: ind, Household: owner})
		}
	}

	// Households stay in order of first appearance with their lines in roster
	// order, so the stable location sort only reorders whole households.
	first := make(map[string]int)
	for i, d := range flagged {
		if _, ok := first[d.Individual.ParentKey]; !ok {
			first[d.Individual.ParentKey] = i
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool {
		a, b := flagged[i].Individual, flagged[j].Individual
		if fa, fb := first[a.ParentKey], first[b.ParentKey]; fa != fb {
			return fa < fb
		}
		return *a.LineNumber < *b.LineNumber
	})
	sortByLocation(flagged, func(d IndividualDefect) *survey.Household { return &d.Household.Household })

	summary.Flagged = len(flagged)
	return flagged, summary
}

type IndividualCheck struct{}

func (IndividualCheck) Name() string { return "missing_individual" }

func (c IndividualCheck) Compute(in *views.Input) (*views.Result, error) {
	flagged, summary := AuditIndividuals(in.Consenting(), in.Individuals)

	detail := report.NewTable(c.Name(), "Missing individual details",
		"key", "parent_key", "village", "location_number", "dwelling_number", "collector",
		"line_number", "first_name", "last_name", "sex")
	for _, d := range flagged {
		h, ind := d.Household, d.Individual
		detail.Append(ind.Key, ind.ParentKey, h.Village, h.LocationNumber, h.DwellingNumber, h.Collector,
			ind.LineNumber, ind.FirstName, ind.LastName, ind.Sex)
	}

	totals := report.NewTable(c.Name()+"_summary", "Missing individual counts", "field", "missing")
	totals.Append("first_name", summary.FirstName)
	totals.Append("last_name", summary.LastName)
	totals.Append("sex", summary.Sex)

	return &views.Result{
		Tables: []*report.Table{detail, totals},
		Stats:  []report.Stat{{Label: "Individuals missing demographics", Count: summary.Flagged, Of: summary.Checked}},
	}, nil
}
