package benchmark

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"crudkit/internal/config"
	"crudkit/internal/observability/metrics"
	"crudkit/internal/resilience/retry"
)

// Runner executes scenarios and collects their timings.
type Runner struct {
	env        *Env
	iterations int
	warmup     int
	workers    int
	retry      bool
	retryCfg   retry.Config
}

// NewRunner returns a Runner configured by cfg.
func NewRunner(env *Env, cfg *config.BenchConfig) *Runner {
	return &Runner{
		env:        env,
		iterations: cfg.Iterations,
		warmup:     cfg.Warmup,
		workers:    max(cfg.Workers, 1),
		retry:      cfg.Retry,
		retryCfg:   retry.DBConfig(),
	}
}

// Run executes every scenario in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		res, err := r.RunScenario(ctx, s)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunScenario runs the warmup iterations on worker 0, then the timed
// iterations spread over the configured workers.
func (r *Runner) RunScenario(ctx context.Context, s Scenario) (Result, error) {
	logger := r.env.Logger.With(slog.String("scenario", s.Name))

	for i := 0; i < r.warmup; i++ {
		if err := r.once(ctx, s, Iteration{Index: i}); err != nil {
			return Result{}, fmt.Errorf("%s: warmup %d: %w", s.Name, i, err)
		}
	}

	samples := make([][]time.Duration, r.workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < r.workers; w++ {
		g.Go(func() error {
			for i := w; i < r.iterations; i += r.workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				start := time.Now()
				err := r.once(gctx, s, Iteration{Worker: w, Index: i})
				elapsed := time.Since(start)
				metrics.RecordBenchmarkIteration(s.Name, elapsed, err)
				if err != nil {
					return fmt.Errorf("%s: iteration %d: %w", s.Name, i, err)
				}
				samples[w] = append(samples[w], elapsed)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("scenario failed", slog.Any("error", err))
		return Result{}, err
	}

	var all []time.Duration
	for _, ws := range samples {
		all = append(all, ws...)
	}
	res := summarize(s.Name, all)
	logger.Info("scenario finished",
		slog.Int("iterations", res.Iterations),
		slog.Duration("mean", res.Mean),
		slog.Duration("min", res.Min),
		slog.Duration("max", res.Max))
	return res, nil
}

func (r *Runner) once(ctx context.Context, s Scenario, it Iteration) error {
	if !r.retry {
		return s.Run(ctx, r.env, it)
	}
	return retry.WithBackoff(ctx, r.retryCfg, func() error {
		return s.Run(ctx, r.env, it)
	})
}
