package benchmark

import (
	"slices"
	"time"
)

// Result summarizes the timed iterations of one scenario.
type Result struct {
	Scenario   string
	Iterations int
	Min        time.Duration
	Mean       time.Duration
	Median     time.Duration
	Max        time.Duration
	Total      time.Duration
}

// summarize computes the statistics of samples. samples is sorted in place.
func summarize(scenario string, samples []time.Duration) Result {
	r := Result{Scenario: scenario, Iterations: len(samples)}
	if len(samples) == 0 {
		return r
	}
	slices.Sort(samples)
	for _, d := range samples {
		r.Total += d
	}
	r.Min = samples[0]
	r.Max = samples[len(samples)-1]
	r.Mean = r.Total / time.Duration(len(samples))
	mid := len(samples) / 2
	if len(samples)%2 == 0 {
		r.Median = (samples[mid-1] + samples[mid]) / 2
	} else {
		r.Median = samples[mid]
	}
	return r
}

// OpsPerSecond is the throughput implied by the mean iteration time.
func (r Result) OpsPerSecond() float64 {
	if r.Mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(r.Mean)
}
