package tally

import (
	"sort"

	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

// dailyOutcomes are the outcome codes with their own daily tally column.
var dailyOutcomes = []struct {
	code   int
	column string
}{
	{1, "completed"},
	{2, "partially_completed"},
	{3, "refused"},
	{4, "migrated_absent"},
	{5, "no_competent_respondent"},
	{6, "other"},
}

type DailyRow struct {
	Collector string
	Village   string
	// Date is empty when the interview timestamp could not be read as a date.
	Date   string
	Counts [6]int
	Total  int
}

type dailyKey struct {
	collector, village, date string
}

// Daily tallies households by collector, village and interview day. The
// view passes consenting households only. Unreadable dates share one empty date key per collector and village.
// Households whose outcome is not one of codes 1–6 are not counted, so each
// row's Total is the sum of its Counts.
func Daily(households []survey.Classified) []DailyRow {
	groups := make(map[dailyKey]*DailyRow)
	for _, h := range households {
		if h.Outcome == nil || *h.Outcome < 1 || *h.Outcome > len(dailyOutcomes) {
			continue
		}

		date, _ := interviewDay(h.InterviewedAt)
		key := dailyKey{h.Collector, h.Village, date}
		row, ok := groups[key]
		if !ok {
			row = &DailyRow{Collector: h.Collector, Village: h.Village, Date: date}
			groups[key] = row
		}
		row.Counts[*h.Outcome-1]++
		row.Total++
	}

	rows := make([]DailyRow, 0, len(groups))
	for _, row := range groups {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			if a.Date == "" || b.Date == "" {
				return b.Date == ""
			}
			return a.Date < b.Date
		}
		if a.Collector != b.Collector {
			return a.Collector < b.Collector
		}
		return a.Village < b.Village
	})
	return rows
}

type DailyTally struct{}

func (DailyTally) Name() string { return "daily_tally" }

func (v DailyTally) Compute(in *views.Input) (*views.Result, error) {
	rows := Daily(in.Consenting())

	columns := []string{"data_collector", "village_name", "collection_date"}
	for _, o := range dailyOutcomes {
		columns = append(columns, o.column)
	}
	columns = append(columns, "total_interviews")

	table := report.NewTable(v.Name(), "Daily tally", columns...)
	interviews := 0
	for _, r := range rows {
		var date any
		if r.Date != "" {
			date = r.Date
		}
		values := []any{r.Collector, r.Village, date}
		for _, n := range r.Counts {
			values = append(values, n)
		}
		table.Append(append(values, r.Total)...)
		interviews += r.Total
	}

	return &views.Result{
		Tables: []*report.Table{table},
		Stats:  []report.Stat{{Label: "Interviews tallied", Count: interviews}},
	}, nil
}
