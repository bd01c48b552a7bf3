package report

import (
	"time"
)

// Stat is a headline count contributed by a view. Of is the denominator used
// for the display percentage; zero means no percentage is shown.
type Stat struct {
	Label string
	Count int
	Of    int
}

// Output is what one view produced in a pass.
type Output struct {
	View     string
	Tables   []*Table
	Stats    []Stat
	Err      error
	Duration time.Duration
}

// Failure records a view that was skipped.
type Failure struct {
	View string
	Err  error
}

type Report struct {
	RunID       string
	Site        string
	GeneratedAt time.Time
	Tables      []*Table
	Failures    []Failure
}

// Table looks a table up by name.
func (r *Report) Table(name string) (*Table, bool) {
	for _, t := range r.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Names lists the table names in assembly order.
func (r *Report) Names() []string {
	names := make([]string, len(r.Tables))
	for i, t := range r.Tables {
		names[i] = t.Name
	}
	return names
}

// HeadlineTable is the name of the display-only summary built by Assemble.
const HeadlineTable = "headline"

// Assemble collects outputs in the given order. Failed views become Failures
// and contribute no tables; every other view's tables are kept as computed.
// The headline table is derived from the views' Stats and formats counts for
// display only.
func Assemble(runID, site string, generatedAt time.Time, outputs []Output) *Report {
	r := &Report{
		RunID:       runID,
		Site:        site,
		GeneratedAt: generatedAt,
		Tables:      make([]*Table, 0, len(outputs)*2+1),
	}

	headline := NewTable(HeadlineTable, "Headline figures", "measure", "count", "share")
	for _, out := range outputs {
		if out.Err != nil {
			r.Failures = append(r.Failures, Failure{View: out.View, Err: out.Err})
			continue
		}
		r.Tables = append(r.Tables, out.Tables...)
		for _, s := range out.Stats {
			share := ""
			if s.Of > 0 {
				share = Percent(s.Count, s.Of)
			}
			headline.Append(s.Label, Thousands(s.Count), share)
		}
	}

	r.Tables = append([]*Table{headline}, r.Tables...)
	return r
}
