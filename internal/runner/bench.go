package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

type Result struct {
	Passes         int64
	Errors         int64
	Concurrency    int
	Throughput     float64
	P95Latency     time.Duration
	P99Latency     time.Duration
	AverageLatency time.Duration
	ErrorRate      float64
	TotalTime      time.Duration
}

func newHistogram() *hdrhistogram.Histogram {
	// Max latency of 10 seconds in microseconds, significant figures of 3
	return hdrhistogram.New(1, 10000000, 3)
}

// Bench runs passes for site from concurrency workers until duration elapses
// or ctx is done, and reports pass latency percentiles.
func Bench(ctx context.Context, p *Pipeline, site string, concurrency int, duration time.Duration) (*Result, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	result := &Result{Concurrency: concurrency}
	totalStartTime := time.Now()

	var passes, errs atomic.Int64
	histograms := make([]*hdrhistogram.Histogram, concurrency)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		histograms[w] = newHistogram()
		wg.Add(1)
		go func(histogram *hdrhistogram.Histogram) {
			defer wg.Done()
			for time.Since(totalStartTime) < duration && ctx.Err() == nil {
				opStartTime := time.Now()
				if _, err := p.Run(ctx, site); err != nil {
					errs.Add(1)
					continue
				}
				passes.Add(1)
				histogram.RecordValue(time.Since(opStartTime).Microseconds())
			}
		}(histograms[w])
	}
	wg.Wait()

	histogram := newHistogram()
	for _, h := range histograms {
		histogram.Merge(h)
	}

	result.Passes = passes.Load()
	result.Errors = errs.Load()
	result.TotalTime = time.Since(totalStartTime)
	result.Throughput = float64(result.Passes) / result.TotalTime.Seconds()
	if total := result.Passes + result.Errors; total > 0 {
		result.ErrorRate = float64(result.Errors) / float64(total)
	}
	result.AverageLatency = time.Duration(histogram.Mean()) * time.Microsecond
	result.P95Latency = time.Duration(histogram.ValueAtQuantile(95)) * time.Microsecond
	result.P99Latency = time.Duration(histogram.ValueAtQuantile(99)) * time.Microsecond

	return result, ctx.Err()
}
