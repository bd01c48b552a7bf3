package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hdss-monitor/internal/classify"
	"hdss-monitor/internal/config"
	"hdss-monitor/internal/database"
	"hdss-monitor/internal/observability"
	"hdss-monitor/internal/report"
	"hdss-monitor/internal/site"
	"hdss-monitor/internal/survey"
	"hdss-monitor/internal/views"
	"hdss-monitor/internal/views/overview"
	"hdss-monitor/internal/views/quality"
	"hdss-monitor/internal/views/tally"
)

// DefaultViews is every view of a pass in report order.
func DefaultViews() []views.View {
	return []views.View{
		overview.Totals{},
		overview.StatusDistribution{},
		overview.SectorDistribution{},
		overview.Collectors{},
		overview.GPSPoints{},
		quality.GPSCheck{},
		quality.RespondentCheck{},
		quality.IndividualCheck{},
		tally.DailyTally{},
		tally.MonthlyProgressive{},
		tally.OutcomePivot{},
		tally.MortalityBySector{},
	}
}

// Pipeline runs computation passes against one record store.
type Pipeline struct {
	driver     database.DatabaseDriver
	source     string
	survey     config.Survey
	classifier *classify.Classifier
	views      []views.View
	logger     *zap.Logger
	now        func() time.Time
}

// New fails with a ConfigurationMissing error if any survey constant is
// absent. With no views given the pipeline runs DefaultViews.
func New(driver database.DatabaseDriver, cfg *config.Config, logger *zap.Logger, vs ...views.View) (*Pipeline, error) {
	classifier, err := classify.New(cfg.Survey)
	if err != nil {
		return nil, err
	}
	if len(vs) == 0 {
		vs = DefaultViews()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		driver:     driver,
		source:     cfg.Source.Driver,
		survey:     cfg.Survey,
		classifier: classifier,
		views:      vs,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Run loads a fresh snapshot and computes every view for the selected site.
// A load failure aborts the pass with a DataSourceUnavailable error and no
// tables. A failing view is recorded in the report and the rest still run.
func (p *Pipeline) Run(ctx context.Context, selected string) (*report.Report, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := p.logger.With(zap.String("run_id", runID), zap.String("site", selected))

	snap, err := p.driver.Load(ctx)
	if err != nil {
		observability.RecordLoadFailure()
		logger.Error("failed to load snapshot", zap.String("source", p.source), zap.Error(err))
		return nil, survey.NewDataSourceError(p.source, err)
	}
	observability.RecordSnapshot(len(snap.Households), len(snap.Individuals))
	logger.Debug("snapshot loaded",
		zap.Int("households", len(snap.Households)),
		zap.Int("individuals", len(snap.Individuals)))

	classified := p.classifier.Classify(snap.Households)
	households, individuals := site.Filter(selected, classified, snap.Individuals)

	in := &views.Input{
		Site:           selected,
		Survey:         p.survey,
		Households:     households,
		Individuals:    individuals,
		AllHouseholds:  len(snap.Households),
		AllIndividuals: len(snap.Individuals),
	}

	r := report.Assemble(runID, selected, p.now(), Compute(in, p.views))
	for _, f := range r.Failures {
		logger.Warn("view skipped", zap.String("view", f.View), zap.Error(f.Err))
	}

	took := time.Since(start)
	observability.RecordPass(observability.SiteLabel(selected, p.survey.Sites), took, r.GeneratedAt)
	logger.Info("pass complete",
		zap.Int("households", len(households)),
		zap.Int("tables", len(r.Tables)),
		zap.Int("failures", len(r.Failures)),
		zap.Duration("took", took))
	return r, nil
}

// Compute evaluates every view concurrently over the same read-only input and
// returns the outputs in the order of vs.
func Compute(in *views.Input, vs []views.View) []report.Output {
	outputs := make([]report.Output, len(vs))

	var wg sync.WaitGroup
	for i, v := range vs {
		wg.Add(1)
		go func(i int, v views.View) {
			defer wg.Done()
			outputs[i] = computeView(in, v)
		}(i, v)
	}
	wg.Wait()

	return outputs
}

func computeView(in *views.Input, v views.View) (out report.Output) {
	out.View = v.Name()
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			out.Tables, out.Stats = nil, nil
			out.Err = survey.NewViewError(out.View, fmt.Errorf("panic: %v", p))
		}
		out.Duration = time.Since(start)
		observability.RecordView(out.View, out.Duration, out.Err != nil)
	}()

	res, err := v.Compute(in)
	if err != nil {
		out.Err = survey.NewViewError(out.View, err)
		return out
	}
	if res != nil {
		out.Tables, out.Stats = res.Tables, res.Stats
	}
	return out
}
