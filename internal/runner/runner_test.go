package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hdss-monitor/internal/config"
	"hdss-monitor/internal/database"
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
)

func ptr[T any](v T) *T { return &v }

func testConfig() *config.Config {
	return &config.Config{
		Source: config.Source{Driver: "memory"},
		Survey: config.Survey{
			Sites:   []string{"central", "ncd"},
			Sectors: map[int]string{1: "Urban", 2: "Peri-Urban", 3: "Settlement", 4: "Rural"},
			Outcomes: map[int]string{
				1: "Completed", 2: "Partially completed", 3: "Refused", 4: "Migrated/Absent",
				5: "No competent respondent", 6: "Other", 96: "Don't know",
			},
			GPSAccuracyThreshold: ptr(5.0),
		},
	}
}

// centralSnapshot holds three consenting central households interviewed by
// the same collector on the same day, plus one household from another site.
func centralSnapshot() *survey.Snapshot {
	household := func(key, site string, outcome int) survey.Household {
		return survey.Household{
			Key:           key,
			Site:          site,
			Village:       "Tubusereia",
			Collector:     "collector-1",
			Submitter:     "collector-1",
			Sector:        ptr(2),
			Outcome:       ptr(outcome),
			Consent:       true,
			InterviewedAt: "2024-03-01T09:30:00",
		}
	}
	return &survey.Snapshot{
		Households: []survey.Household{
			household("hh-1", "central", 1),
			household("hh-2", "Central", 1),
			household("hh-3", "central", 3),
			household("hh-4", "ncd", 1),
		},
		Individuals: []survey.Individual{
			{Key: "hh-1/1", ParentKey: "hh-1", LineNumber: ptr(1)},
			{Key: "hh-1/2", ParentKey: "hh-1", LineNumber: ptr(2)},
			{Key: "hh-4/1", ParentKey: "hh-4", LineNumber: ptr(1)},
		},
	}
}

type stubView struct {
	name  string
	err   error
	panic bool
}

func (v stubView) Name() string { return v.name }

func (v stubView) Compute(in *views.Input) (*views.Result, error) {
	if v.panic {
		var households []survey.Classified
		_ = households[len(in.Households)+1]
	}
	if v.err != nil {
		return nil, v.err
	}
	table := report.NewTable(v.name, v.name, "households")
	table.Append(len(in.Households))
	return &views.Result{Tables: []*report.Table{table}}, nil
}

func TestRunDailyTallyScenario(t *testing.T) {
	p, err := New(database.NewMemoryDriver(centralSnapshot()), testConfig(), zap.NewNop())
	require.NoError(t, err)

	r, err := p.Run(context.Background(), "central")
	require.NoError(t, err)
	require.Empty(t, r.Failures)
	require.NotEmpty(t, r.RunID)
	require.Equal(t, report.HeadlineTable, r.Tables[0].Name)

	daily, ok := r.Table("daily_tally")
	require.True(t, ok)
	require.Equal(t, [][]string{
		{"collector-1", "Tubusereia", "2024-03-01", "2", "0", "1", "0", "0", "0", "3"},
	}, daily.Strings())

	overview, ok := r.Table("overview")
	require.True(t, ok)
	require.Equal(t, []string{"site_households", "3"}, overview.Strings()[0])
	require.Equal(t, []string{"site_individuals", "2"}, overview.Strings()[1])
	require.Equal(t, []string{"all_households", "4"}, overview.Strings()[3])
}

func TestRunProducesEveryDefaultTable(t *testing.T) {
	p, err := New(database.NewMemoryDriver(centralSnapshot()), testConfig(), nil)
	require.NoError(t, err)

	r, err := p.Run(context.Background(), "central")
	require.NoError(t, err)

	for _, name := range []string{
		"overview", "interview_status", "sector_distribution", "collectors", "gps_points",
		"gps_defects", "gps_defects_summary",
		"missing_respondent", "missing_respondent_summary",
		"missing_individual", "missing_individual_summary",
		"daily_tally", "monthly_progressive", "interview_outcome", "mortality_by_sector",
	} {
		_, ok := r.Table(name)
		require.True(t, ok, "missing table %s", name)
	}
}

func TestRunUnknownSiteYieldsEmptyViews(t *testing.T) {
	p, err := New(database.NewMemoryDriver(centralSnapshot()), testConfig(), zap.NewNop())
	require.NoError(t, err)

	r, err := p.Run(context.Background(), "atlantis")
	require.NoError(t, err)
	require.Empty(t, r.Failures)

	for _, name := range []string{"gps_defects", "missing_respondent", "missing_individual", "daily_tally"} {
		table, ok := r.Table(name)
		require.True(t, ok)
		require.Empty(t, table.Rows, name)
	}

	outcomes, _ := r.Table("interview_outcome")
	for _, row := range outcomes.Strings() {
		require.Equal(t, "0", row[1])
		require.Equal(t, "0", row[2])
	}
}

func TestRunLabelsPassesWithConfiguredSites(t *testing.T) {
	p, err := New(database.NewMemoryDriver(centralSnapshot()), testConfig(), zap.NewNop())
	require.NoError(t, err)

	_, err = p.Run(context.Background(), "Atlantis")
	require.NoError(t, err)
	_, err = p.Run(context.Background(), "CENTRAL")
	require.NoError(t, err)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	var labels []string
	for _, f := range families {
		if f.GetName() != "hdss_monitor_pipeline_pass_duration_seconds" {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				labels = append(labels, l.GetValue())
			}
		}
	}
	require.Contains(t, labels, "unknown")
	require.Contains(t, labels, "central")
	require.NotContains(t, labels, "Atlantis")
	require.NotContains(t, labels, "CENTRAL")
}

func TestRunLoaderFailureIsFatal(t *testing.T) {
	driver := database.NewMemoryDriver(centralSnapshot())
	driver.Fail = errors.New("connection refused")

	p, err := New(driver, testConfig(), zap.NewNop())
	require.NoError(t, err)

	r, err := p.Run(context.Background(), "central")
	require.Nil(t, r)
	require.True(t, survey.IsDataSourceUnavailable(err))
	require.Contains(t, err.Error(), "connection refused")
}

func TestNewRequiresSurveyConstants(t *testing.T) {
	cfg := testConfig()
	cfg.Survey.Outcomes = nil

	_, err := New(database.NewMemoryDriver(nil), cfg, zap.NewNop())
	require.True(t, survey.IsConfigurationMissing(err))
}

func TestRunIsolatesFailingViews(t *testing.T) {
	p, err := New(database.NewMemoryDriver(centralSnapshot()), testConfig(), zap.NewNop(),
		stubView{name: "first"},
		stubView{name: "broken", err: errors.New("malformed row")},
		stubView{name: "panicky", panic: true},
		stubView{name: "last"},
	)
	require.NoError(t, err)

	r, err := p.Run(context.Background(), "central")
	require.NoError(t, err)
	require.Equal(t, []string{report.HeadlineTable, "first", "last"}, r.Names())

	require.Len(t, r.Failures, 2)
	require.Equal(t, "broken", r.Failures[0].View)
	require.True(t, survey.IsViewFailed(r.Failures[0].Err))
	require.Contains(t, r.Failures[0].Err.Error(), "malformed row")
	require.Equal(t, "panicky", r.Failures[1].View)
	require.Contains(t, r.Failures[1].Err.Error(), "panic")

	last, _ := r.Table("last")
	require.Equal(t, [][]string{{"3"}}, last.Strings())
}

func TestComputeKeepsViewOrder(t *testing.T) {
	in := &views.Input{Households: make([]survey.Classified, 2)}
	outputs := Compute(in, []views.View{stubView{name: "a"}, stubView{name: "b"}, stubView{name: "c"}})

	require.Len(t, outputs, 3)
	for i, name := range []string{"a", "b", "c"} {
		require.Equal(t, name, outputs[i].View)
		require.NoError(t, outputs[i].Err)
	}
}

func TestBench(t *testing.T) {
	p, err := New(database.NewMemoryDriver(centralSnapshot()), testConfig(), zap.NewNop())
	require.NoError(t, err)

	result, err := Bench(context.Background(), p, "central", 2, 50*time.Millisecond)
	require.NoError(t, err)
	require.Positive(t, result.Passes)
	require.Zero(t, result.Errors)
	require.Equal(t, 2, result.Concurrency)
	require.Positive(t, result.Throughput)
}

func TestBenchCountsFailedPasses(t *testing.T) {
	driver := database.NewMemoryDriver(nil)
	driver.Fail = errors.New("down")
	p, err := New(driver, testConfig(), zap.NewNop())
	require.NoError(t, err)

	result, err := Bench(context.Background(), p, "central", 1, 10*time.Millisecond)
	require.NoError(t, err)
	require.Zero(t, result.Passes)
	require.Positive(t, result.Errors)
	require.Equal(t, 1.0, result.ErrorRate)
}
