// Package classify derives the categorical labels every view reads: sector
// name, interview status and the GPS completeness/accuracy buckets.
package classify

import (
	"hdss-monitor/internal/config"
	"hdss-monitor/internal/survey"
)

type Classifier struct {
	sectors   map[int]string
	outcomes  map[int]string
	threshold float64
}

// New builds a Classifier from validated survey constants.
func New(cfg config.Survey) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		sectors:   cfg.Sectors,
		outcomes:  cfg.Outcomes,
		threshold: cfg.Threshold(),
	}, nil
}

// Classify returns a labelled copy of every household. Input rows are not modified.
func (c *Classifier) Classify(households []survey.Household) []survey.Classified {
	out := make([]survey.Classified, len(households))
	for i, h := range households {
		out[i] = survey.Classified{
			Household:       h,
			SectorName:      lookup(c.sectors, h.Sector),
			InterviewStatus: lookup(c.outcomes, h.Outcome),
			Fixes:           make(map[survey.GPSKind]survey.FixLabels, len(survey.GPSKinds)),
		}
		for _, kind := range survey.GPSKinds {
			out[i].Fixes[kind] = c.Fix(h.Fix(kind))
		}
	}
	return out
}

// Fix buckets one GPS triple.
func (c *Classifier) Fix(g survey.GPS) survey.FixLabels {
	labels := survey.FixLabels{Completeness: survey.Missing}
	if g.Complete() {
		labels.Completeness = survey.Complete
	}

	switch {
	case g.Accuracy == nil:
		labels.Accuracy = survey.NotApplicable
	case *g.Accuracy > c.threshold:
		labels.Accuracy = survey.Inaccurate
	default:
		labels.Accuracy = survey.Accurate
	}
	return labels
}

func lookup(labels map[int]string, code *int) string {
	if code == nil {
		return ""
	}
	return labels[*code]
}
