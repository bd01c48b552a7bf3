package tally

import (
	"fmt"

	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

// pivotOutcomes are the categories of the outcome pivot, in display order:
// completed, partially completed, refused, no competent respondent, absent.
var pivotOutcomes = []int{1, 2, 3, 5, 4}

type OutcomeRow struct {
	Code       int
	Label      string
	Households int
	Population int
}

// Outcomes counts households and their individuals per pivot category. The
// consent flag is not consulted. Households with any other outcome, or none,
// fall in no category.
func Outcomes(households []survey.Classified, population map[string]int, labels map[int]string) []OutcomeRow {
	index := make(map[int]int, len(pivotOutcomes))
	rows := make([]OutcomeRow, len(pivotOutcomes))
	for i, code := range pivotOutcomes {
		index[code] = i
		label, ok := labels[code]
		if !ok {
			label = fmt.Sprintf("Outcome %d", code)
		}
		rows[i] = OutcomeRow{Code: code, Label: label}
	}

	seen := make(map[string]struct{}, len(households))
	for _, h := range households {
		if h.Outcome == nil {
			continue
		}
		i, ok := index[*h.Outcome]
		if !ok {
			continue
		}
		if _, dup := seen[h.Key]; dup {
			continue
		}
		seen[h.Key] = struct{}{}
		rows[i].Households++
		rows[i].Population += population[h.Key]
	}
	return rows
}

type OutcomePivot struct{}

func (OutcomePivot) Name() string { return "interview_outcome" }

func (v OutcomePivot) Compute(in *views.Input) (*views.Result, error) {
	rows := Outcomes(in.Households, in.Population(), in.Survey.Outcomes)

	table := report.NewTable(v.Name(), "Interview outcome", "outcome", "households", "population")
	for _, r := range rows {
		table.Append(r.Label, r.Households, r.Population)
	}

	completed := rows[0]
	return &views.Result{
		Tables: []*report.Table{table},
		Stats:  []report.Stat{{Label: "Households completed", Count: completed.Households, Of: len(in.Households)}},
	}, nil
}
