// Package main runs the update benchmarks: hand-coded book updates against
// the same updates dispatched through the generic CRUD layer.
// Usage: crudkit-bench [--config bench.yaml] [--output text|json]
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"crudkit/internal/benchmark"
	"crudkit/internal/config"
	"crudkit/internal/infra/db"
	"crudkit/internal/observability/logging"
	"crudkit/internal/persistence"
	"crudkit/internal/resilience/circuitbreaker"
)

func main() {
	var configPath, output string
	flag.StringVar(&configPath, "config", "", "Path to a YAML bench configuration file")
	flag.StringVar(&output, "output", "text", "Output format: text or json")
	flag.Parse()

	if output != "text" && output != "json" {
		fmt.Fprintf(os.Stderr, "Error: Invalid output '%s' (must be 'text' or 'json')\n", output)
		os.Exit(2)
	}

	logger := initLogger()

	benchCfg, err := config.LoadBenchConfig(configPath)
	if err != nil {
		logger.Error("failed to load bench configuration", slog.Any("error", err))
		os.Exit(1)
	}
	dbCfg, err := db.ConfigFromEnv()
	if err != nil {
		logger.Error("failed to load database configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, benchCfg.Timeout)
	defer cancel()

	results, err := run(ctx, logger, benchCfg, dbCfg)
	if err != nil {
		logger.Error("benchmark failed", slog.Any("error", err))
		os.Exit(1)
	}

	if output == "json" {
		err = writeJSON(os.Stdout, results)
	} else {
		err = writeTable(os.Stdout, results)
	}
	if err != nil {
		logger.Error("failed to write results", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger loads .env when present and returns the default JSON logger.
func initLogger() *slog.Logger {
	envErr := godotenv.Load()
	logger := logging.NewFromEnv()
	slog.SetDefault(logger)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn("failed to load .env file", slog.Any("error", envErr))
	}
	return logger
}

// run prepares the database and executes the selected scenarios.
func run(ctx context.Context, logger *slog.Logger, benchCfg *config.BenchConfig, dbCfg db.Config) ([]benchmark.Result, error) {
	database, err := db.Open(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	if err := prepare(ctx, logger, database, dbCfg.Dialect); err != nil {
		return nil, err
	}

	var exec persistence.Executor = database
	if benchCfg.CircuitBreaker {
		exec = circuitbreaker.NewDB(database)
		logger.Info("database circuit breaker enabled")
	}

	if benchCfg.MetricsAddr != "" {
		startMetricsServer(ctx, logger, benchCfg.MetricsAddr)
	}

	env, err := benchmark.NewEnv(exec, dbCfg.Dialect, logger)
	if err != nil {
		return nil, err
	}
	scenarios, err := benchmark.Lookup(benchCfg.SelectedScenarios())
	if err != nil {
		return nil, err
	}

	logger.Info("benchmark starting",
		slog.String("dialect", dbCfg.Dialect.String()),
		slog.Int("scenarios", len(scenarios)),
		slog.Int("iterations", benchCfg.Iterations),
		slog.Int("warmup", benchCfg.Warmup),
		slog.Int("workers", benchCfg.Workers))

	ctx = logging.WithLogger(ctx, logger)
	return benchmark.NewRunner(env, benchCfg).Run(ctx, scenarios)
}

// prepare applies the schema and seeds the four books.
func prepare(ctx context.Context, logger *slog.Logger, database *sql.DB, dialect persistence.Dialect) error {
	if err := db.MigrateUp(ctx, database, dialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	n, err := db.SeedDatabaseFourBooks(ctx, database, dialect)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("database seeded", slog.Int("books_added", n))
	return nil
}

func writeTable(w io.Writer, results []benchmark.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Scenario\tIterations\tMin\tMean\tMedian\tMax\tOps/s\t")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%.0f\t\n",
			r.Scenario, r.Iterations, r.Min, r.Mean, r.Median, r.Max, r.OpsPerSecond())
	}
	return tw.Flush()
}

// resultOutput is the JSON form of a benchmark.Result. Durations are in nanoseconds.
type resultOutput struct {
	Scenario     string  `json:"scenario"`
	Iterations   int     `json:"iterations"`
	MinNs        int64   `json:"min_ns"`
	MeanNs       int64   `json:"mean_ns"`
	MedianNs     int64   `json:"median_ns"`
	MaxNs        int64   `json:"max_ns"`
	OpsPerSecond float64 `json:"ops_per_second"`
}

func writeJSON(w io.Writer, results []benchmark.Result) error {
	out := make([]resultOutput, 0, len(results))
	for _, r := range results {
		out = append(out, resultOutput{
			Scenario:     r.Scenario,
			Iterations:   r.Iterations,
			MinNs:        r.Min.Nanoseconds(),
			MeanNs:       r.Mean.Nanoseconds(),
			MedianNs:     r.Median.Nanoseconds(),
			MaxNs:        r.Max.Nanoseconds(),
			OpsPerSecond: r.OpsPerSecond(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
