package tally

import (
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

const totalLabel = "TOTAL"

type MortalityRow struct {
	Sector     string
	Households int
	Deaths     int
}

// Mortality sums reported deaths of death-consenting households per sector,
// in ascending sector code order, then a TOTAL row over those sectors.
// Households outside the configured sectors are left out of every row.
func Mortality(households []survey.Classified, sectors map[int]string, codes []int) []MortalityRow {
	index := make(map[int]int, len(codes))
	rows := make([]MortalityRow, len(codes), len(codes)+1)
	for i, code := range codes {
		index[code] = i
		rows[i].Sector = sectors[code]
	}

	for _, h := range households {
		if !h.DeathConsent || h.Sector == nil {
			continue
		}
		i, ok := index[*h.Sector]
		if !ok {
			continue
		}
		rows[i].Households++
		if h.Deaths != nil {
			rows[i].Deaths += *h.Deaths
		}
	}

	total := MortalityRow{Sector: totalLabel}
	for _, r := range rows {
		total.Households += r.Households
		total.Deaths += r.Deaths
	}
	return append(rows, total)
}

type MortalityBySector struct{}

func (MortalityBySector) Name() string { return "mortality_by_sector" }

func (v MortalityBySector) Compute(in *views.Input) (*views.Result, error) {
	rows := Mortality(in.Households, in.Survey.Sectors, in.Survey.SectorCodes())

	table := report.NewTable(v.Name(), "Mortality by sector", "sector", "households", "deaths")
	for _, r := range rows {
		table.Append(r.Sector, r.Households, r.Deaths)
	}

	return &views.Result{
		Tables: []*report.Table{table},
		Stats:  []report.Stat{{Label: "Deaths reported", Count: rows[len(rows)-1].Deaths}},
	}, nil
}
