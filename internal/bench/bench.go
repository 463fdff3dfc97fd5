// Package bench fires the same builder chain repeatedly and summarises the
// latency distribution. Every iteration uses a new builder, so each request
// still runs its own expectations.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wesleyorama2/chainreq/builder"
)

// Histogram bounds in microseconds: 1µs to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3600000000
	histogramSigFigs = 3
)

// Factory returns a fully configured builder for one iteration.
type Factory func() *builder.Builder

// Config controls a benchmark run.
type Config struct {
	// Count is the number of requests to send
	Count int

	// RPS caps the request rate; zero means as fast as possible
	RPS float64

	Logger *zap.Logger
}

// Summary describes a finished run.
type Summary struct {
	Count       int
	Failures    int
	Expectation int
	Transport   int
	Elapsed     time.Duration
	Min         time.Duration
	Mean        time.Duration
	P50         time.Duration
	P90         time.Duration
	P99         time.Duration
	Max         time.Duration
}

// Throughput is completed requests per second.
func (s Summary) Throughput() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Count) / s.Elapsed.Seconds()
}

// Run sends cfg.Count requests one after another. Builders produced by
// newBuilder should be in builder.FailRecoverable mode; a fatal builder
// aborts the run on its first violation.
func Run(ctx context.Context, cfg Config, newBuilder Factory) (*Summary, error) {
	if cfg.Count < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}
	if cfg.RPS < 0 {
		return nil, fmt.Errorf("rps cannot be negative")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}

	hist := hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs)
	summary := &Summary{}
	start := time.Now()

	for i := 0; i < cfg.Count; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		} else if ctx.Err() != nil {
			break
		}

		began := time.Now()
		_, err := newBuilder().Do(ctx)
		latency := time.Since(began)

		if recErr := hist.RecordValue(latency.Microseconds()); recErr != nil {
			logger.Debug("latency out of histogram range", zap.Duration("latency", latency))
		}
		summary.Count++

		if err != nil {
			summary.Failures++
			var expErr *builder.ExpectationError
			if errors.As(err, &expErr) {
				summary.Expectation++
			} else {
				summary.Transport++
			}
			logger.Debug("iteration failed", zap.Int("iteration", i), zap.Error(err))
		}
	}

	summary.Elapsed = time.Since(start)
	if summary.Count > 0 {
		summary.Min = micros(hist.Min())
		summary.Max = micros(hist.Max())
		summary.Mean = time.Duration(hist.Mean() * float64(time.Microsecond))
		summary.P50 = micros(hist.ValueAtQuantile(50))
		summary.P90 = micros(hist.ValueAtQuantile(90))
		summary.P99 = micros(hist.ValueAtQuantile(99))
	}

	return summary, nil
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
