// Package config loads the configuration of the benchmark command.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	envconfig "crudkit/pkg/config"
)

// Scenario names accepted in BenchConfig.Scenarios.
const (
	ScenarioHandCodedProperty = "hand-coded-property"
	ScenarioGenericProperty   = "generic-property"
	ScenarioHandCodedMethod   = "hand-coded-method"
	ScenarioGenericMethod     = "generic-method"
)

// AllScenarios lists every scenario in run order.
var AllScenarios = []string{
	ScenarioHandCodedProperty,
	ScenarioGenericProperty,
	ScenarioHandCodedMethod,
	ScenarioGenericMethod,
}

// MaxWorkers is the number of seeded books; each worker updates its own.
const MaxWorkers = 4

// BenchConfig holds the settings of one benchmark run.
type BenchConfig struct {
	// Iterations per scenario. Default: 100
	Iterations int `yaml:"iterations"`

	// Warmup iterations per scenario, excluded from the statistics. Default: 5
	Warmup int `yaml:"warmup"`

	// Workers running iterations concurrently, 1 to MaxWorkers. Default: 1
	Workers int `yaml:"workers"`

	// Scenarios to run. Empty means all.
	Scenarios []string `yaml:"scenarios"`

	// Timeout bounds the whole run. Default: 5m
	Timeout time.Duration `yaml:"timeout"`

	// Retry retries iterations that fail with a transient database error.
	Retry bool `yaml:"retry"`

	// CircuitBreaker wraps the database in a circuit breaker.
	CircuitBreaker bool `yaml:"circuit_breaker"`

	// MetricsAddr serves /metrics when set, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr"`
}

// DefaultBenchConfig returns the configuration used when nothing is set.
func DefaultBenchConfig() BenchConfig {
	return BenchConfig{
		Iterations: 100,
		Warmup:     5,
		Workers:    1,
		Timeout:    5 * time.Minute,
		Retry:      true,
	}
}

// LoadBenchConfig reads path over the defaults and then applies the BENCH_*
// environment overrides. An empty path skips the file.
// The path is expected to come from a trusted source (command-line flag).
func LoadBenchConfig(path string) (*BenchConfig, error) {
	cfg := DefaultBenchConfig()

	if path != "" {
		// #nosec G304 -- path is provided by the operator
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bench configuration: %w", err)
	}
	return &cfg, nil
}

func (c *BenchConfig) applyEnv() {
	c.Iterations = envconfig.GetEnvInt("BENCH_ITERATIONS", c.Iterations)
	c.Warmup = envconfig.GetEnvInt("BENCH_WARMUP", c.Warmup)
	c.Workers = envconfig.GetEnvInt("BENCH_WORKERS", c.Workers)
	c.Scenarios = envconfig.GetEnvStringList("BENCH_SCENARIOS", c.Scenarios)
	c.Timeout = envconfig.GetEnvDuration("BENCH_TIMEOUT", c.Timeout)
	c.Retry = envconfig.GetEnvBool("BENCH_RETRY", c.Retry)
	c.CircuitBreaker = envconfig.GetEnvBool("BENCH_CIRCUIT_BREAKER", c.CircuitBreaker)
	c.MetricsAddr = envconfig.GetEnvString("BENCH_METRICS_ADDR", c.MetricsAddr)
}

// Validate checks configuration correctness.
func (c *BenchConfig) Validate() error {
	var errs []error

	if c.Iterations <= 0 {
		errs = append(errs, errors.New("iterations must be positive"))
	}
	if c.Warmup < 0 {
		errs = append(errs, errors.New("warmup must not be negative"))
	}
	if c.Workers <= 0 || c.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers must be between 1 and %d", MaxWorkers))
	}
	if err := envconfig.ValidatePositiveDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	}
	for _, name := range c.Scenarios {
		if !slices.Contains(AllScenarios, name) {
			errs = append(errs, fmt.Errorf("unknown scenario %q", name))
		}
	}

	return errors.Join(errs...)
}

// SelectedScenarios returns the configured scenarios, or all of them.
func (c *BenchConfig) SelectedScenarios() []string {
	if len(c.Scenarios) == 0 {
		return AllScenarios
	}
	return c.Scenarios
}
