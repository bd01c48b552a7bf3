package tally

import (
	"sort"
	"strings"

	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

// GrandTotalLabel marks the synthetic last row of the monthly progressive tally.
const GrandTotalLabel = "Grand Total"

const completedOutcome = 1

// MonthlyRow holds, per sector in configured code order, the distinct
// completed households and the individuals living in them.
type MonthlyRow struct {
	Month           string
	Households      []int
	Population      []int
	TotalHouseholds int
	TotalPopulation int
}

// Monthly builds the progressive tally: one row per interview month, ascending,
// followed by the grand total. Only completed interviews with a well-formed
// date and a sector among sectorCodes take part.
func Monthly(households []survey.Classified, population map[string]int, sectorCodes []int) []MonthlyRow {
	column := make(map[int]int, len(sectorCodes))
	for i, code := range sectorCodes {
		column[code] = i
	}

	months := make(map[string]*MonthlyRow)
	seen := make(map[string]struct{})
	for _, h := range households {
		if h.Outcome == nil || *h.Outcome != completedOutcome || h.Sector == nil {
			continue
		}
		col, ok := column[*h.Sector]
		if !ok {
			continue
		}
		month, ok := interviewMonth(h.InterviewedAt)
		if !ok {
			continue
		}
		if _, dup := seen[h.Key]; dup {
			continue
		}
		seen[h.Key] = struct{}{}

		row, ok := months[month]
		if !ok {
			row = &MonthlyRow{
				Month:      month,
				Households: make([]int, len(sectorCodes)),
				Population: make([]int, len(sectorCodes)),
			}
			months[month] = row
		}
		row.Households[col]++
		row.Population[col] += population[h.Key]
	}

	rows := make([]MonthlyRow, 0, len(months)+1)
	for _, row := range months {
		row.TotalHouseholds = sum(row.Households)
		row.TotalPopulation = sum(row.Population)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })

	return append(rows, GrandTotal(rows, len(sectorCodes)))
}

// GrandTotal sums the given month rows column by column.
func GrandTotal(rows []MonthlyRow, sectors int) MonthlyRow {
	total := MonthlyRow{
		Month:      GrandTotalLabel,
		Households: make([]int, sectors),
		Population: make([]int, sectors),
	}
	for _, r := range rows {
		for i := 0; i < sectors; i++ {
			total.Households[i] += r.Households[i]
			total.Population[i] += r.Population[i]
		}
		total.TotalHouseholds += r.TotalHouseholds
		total.TotalPopulation += r.TotalPopulation
	}
	return total
}

func sum(values []int) int {
	n := 0
	for _, v := range values {
		n += v
	}
	return n
}

type MonthlyProgressive struct{}

func (MonthlyProgressive) Name() string { return "monthly_progressive" }

func (v MonthlyProgressive) Compute(in *views.Input) (*views.Result, error) {
	codes := in.Survey.SectorCodes()
	rows := Monthly(in.Households, in.Population(), codes)

	columns := []string{"month"}
	for _, code := range codes {
		slug := columnSlug(in.Survey.Sectors[code])
		columns = append(columns, slug+"_households", slug+"_population")
	}
	columns = append(columns, "total_households", "total_population")

	table := report.NewTable(v.Name(), "Monthly progressive tally by sector", columns...)
	for _, r := range rows {
		values := []any{r.Month}
		for i := range codes {
			values = append(values, r.Households[i], r.Population[i])
		}
		table.Append(append(values, r.TotalHouseholds, r.TotalPopulation)...)
	}

	grand := rows[len(rows)-1]
	return &views.Result{
		Tables: []*report.Table{table},
		Stats: []report.Stat{
			{Label: "Completed households enumerated", Count: grand.TotalHouseholds},
			{Label: "Population enumerated", Count: grand.TotalPopulation},
		},
	}, nil
}

// columnSlug turns a label like "Peri-Urban" into "peri_urban".
func columnSlug(label string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(label) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
