// Package views defines the contract shared by the quality checks and tally
// reports. Every view reads the same site-scoped snapshot and none depends on
// another's output.
package views

import (
	"hdss-monitor/internal/config"
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
)

// Input is the read-only, site-scoped snapshot handed to every view.
type Input struct {
	Site        string
	Survey      config.Survey
	Households  []survey.Classified
	Individuals []survey.Individual

	// Snapshot-wide counts, before site filtering.
	AllHouseholds  int
	AllIndividuals int
}

// Result is what a view hands to the report assembler.
type Result struct {
	Tables []*report.Table
	Stats  []report.Stat
}

type View interface {
	Name() string
	Compute(in *Input) (*Result, error)
}

// Consenting returns the households with the consent flag set.
func (in *Input) Consenting() []survey.Classified {
	out := make([]survey.Classified, 0, len(in.Households))
	for _, h := range in.Households {
		if h.Consent {
			out = append(out, h)
		}
	}
	return out
}

// Population counts the individuals owned by each household in the input.
func (in *Input) Population() map[string]int {
	return survey.PopulationByHousehold(in.Individuals)
}
