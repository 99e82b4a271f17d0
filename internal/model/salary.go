package model

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// MaxSamples caps how many completions a single run may request.
const MaxSamples = 100

// Run kinds as persisted to history.
const (
	KindDistribution = "distribution" // percentile-curve estimate
	KindSpot         = "spot"         // single-figure estimate
)

// Request describes one salary estimation run.
type Request struct {
	Title    string // job title
	Company  string // company name
	Location string // free-form city/region string
	Tier     Tier   // which backend model answers
	Samples  int    // how many completions to request
}

// Validate checks the limits enforced at every input boundary. The free-form
// strings are not validated; empty values pass through to the prompt verbatim.
func (r Request) Validate() error {
	if r.Tier.Model() == "" {
		return fmt.Errorf("unknown tier %q", string(r.Tier))
	}
	if r.Samples < 1 || r.Samples > MaxSamples {
		return fmt.Errorf("samples must be between 1 and %d, got %d", MaxSamples, r.Samples)
	}
	return nil
}

// PercentileSample is one model response parsed into percentile rank → salary.
type PercentileSample map[int]int

// Distribution is the percentile curve averaged across all valid samples.
type Distribution struct {
	Percentiles map[int]float64 // mean salary per percentile rank
	Requested   int             // samples asked for
	Valid       int             // samples that passed the format check
}

// Ranks returns the percentile ranks present, ascending.
func (d Distribution) Ranks() []int {
	ranks := make([]int, 0, len(d.Percentiles))
	for r := range d.Percentiles {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks
}

// Values returns the mean salaries in ascending rank order.
func (d Distribution) Values() []float64 {
	ranks := d.Ranks()
	vals := make([]float64, len(ranks))
	for i, r := range ranks {
		vals[i] = d.Percentiles[r]
	}
	return vals
}

// Median returns the value at the 50th percentile rank, if present.
func (d Distribution) Median() (float64, bool) {
	v, ok := d.Percentiles[50]
	return v, ok
}

// SpotEstimate is the aggregate of single-figure samples.
type SpotEstimate struct {
	Median    float64
	Values    []int // every parsed figure, in arrival order
	Requested int
}

// Valid reports how many samples parsed.
func (e SpotEstimate) Valid() int {
	return len(e.Values)
}

// RunRecord is one finished estimation run as persisted to history.
type RunRecord struct {
	ID          int64
	CreatedAt   time.Time
	Kind        string // KindDistribution or KindSpot
	Title       string
	Company     string
	Location    string
	Tier        Tier
	Requested   int
	Valid       int
	Median      float64
	Percentiles map[int]float64 // nil for spot runs
}

// Completer produces one completion from a backend model.
type Completer interface {
	Complete(ctx context.Context, modelID, prompt string) (string, error)
}

// RunStore persists finished runs for the history views.
type RunStore interface {
	Save(rec RunRecord) error
	Recent(limit int) ([]RunRecord, error)
	Prune(olderThan time.Duration) error
}

// Notifier announces a finished run.
type Notifier interface {
	Notify(rec RunRecord) error
}
