// Package overview holds the site-level summaries shown ahead of the quality
// and tally reports: headline totals, status and sector distributions, the
// busiest collectors and the household GPS points. None is consent-gated.
package overview

import (
	"sort"

	"hdss-monitor/internal/report"
	"hdss-monitor/internal/views"
)

// TopCollectors is how many collectors the collectors table keeps.
const TopCollectors = 15

type Totals struct{}

func (Totals) Name() string { return "overview" }

func (v Totals) Compute(in *views.Input) (*views.Result, error) {
	households, individuals := len(in.Households), len(in.Individuals)
	avg := 0.0
	if households > 0 {
		avg = report.Round(float64(individuals)/float64(households), 2)
	}

	table := report.NewTable(v.Name(), "Overview", "measure", "value")
	table.Append("site_households", households)
	table.Append("site_individuals", individuals)
	table.Append("average_household_size", avg)
	table.Append("all_households", in.AllHouseholds)
	table.Append("all_individuals", in.AllIndividuals)

	return &views.Result{
		Tables: []*report.Table{table},
		Stats: []report.Stat{
			{Label: "Households", Count: households, Of: in.AllHouseholds},
			{Label: "Individuals", Count: individuals, Of: in.AllIndividuals},
		},
	}, nil
}

// Count is one label with its number of households.
type Count struct {
	Label string
	Count int
}

// countBy tallies non-empty labels, largest first, ties by label.
func countBy(n int, label func(i int) string) []Count {
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		if l := label(i); l != "" {
			counts[l]++
		}
	}

	out := make([]Count, 0, len(counts))
	for l, c := range counts {
		out = append(out, Count{Label: l, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

type StatusDistribution struct{}

func (StatusDistribution) Name() string { return "interview_status" }

// Compute counts households per mapped interview status. Percentages are of
// the households with a mapped status.
func (v StatusDistribution) Compute(in *views.Input) (*views.Result, error) {
	counts := countBy(len(in.Households), func(i int) string { return in.Households[i].InterviewStatus })
	mapped := 0
	for _, c := range counts {
		mapped += c.Count
	}

	table := report.NewTable(v.Name(), "Interview status distribution", "status", "count", "percentage")
	for _, c := range counts {
		table.Append(c.Label, c.Count, report.Percent(c.Count, mapped))
	}
	return &views.Result{Tables: []*report.Table{table}}, nil
}

type SectorDistribution struct{}

func (SectorDistribution) Name() string { return "sector_distribution" }

func (v SectorDistribution) Compute(in *views.Input) (*views.Result, error) {
	counts := countBy(len(in.Households), func(i int) string { return in.Households[i].SectorName })

	table := report.NewTable(v.Name(), "Households by sector", "sector", "count")
	for _, c := range counts {
		table.Append(c.Label, c.Count)
	}
	return &views.Result{Tables: []*report.Table{table}}, nil
}

type Collectors struct{}

func (Collectors) Name() string { return "collectors" }

func (v Collectors) Compute(in *views.Input) (*views.Result, error) {
	counts := countBy(len(in.Households), func(i int) string { return in.Households[i].Submitter })
	if len(counts) > TopCollectors {
		counts = counts[:TopCollectors]
	}

	table := report.NewTable(v.Name(), "Households per data collector", "submitter", "count")
	for _, c := range counts {
		table.Append(c.Label, c.Count)
	}
	return &views.Result{Tables: []*report.Table{table}}, nil
}

type GPSPoints struct{}

func (GPSPoints) Name() string { return "gps_points" }

// Compute lists the household fixes that can be placed on a map.
func (v GPSPoints) Compute(in *views.Input) (*views.Result, error) {
	table := report.NewTable(v.Name(), "Household GPS points", "key", "village", "latitude", "longitude")
	for _, h := range in.Households {
		fix := h.HouseholdGPS
		if fix.Latitude == nil || fix.Longitude == nil {
			continue
		}
		table.Append(h.Key, h.Village, *fix.Latitude, *fix.Longitude)
	}
	return &views.Result{Tables: []*report.Table{table}}, nil
}
