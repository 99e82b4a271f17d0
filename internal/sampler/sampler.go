// Package sampler owns the estimation pipeline: build the query, sample the
// model N times, extract each reply, aggregate the survivors.
package sampler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/paydar/paydar/internal/aggregate"
	"github.com/paydar/paydar/internal/extract"
	"github.com/paydar/paydar/internal/model"
	"github.com/paydar/paydar/internal/prompt"
)

// Sampler runs the pipeline for one request at a time. Samples are issued
// strictly in sequence; a failed sample is skipped, never retried.
type Sampler struct {
	completer model.Completer
	logger    *slog.Logger

	// OnSample, when set, is invoked after every completion with whether the
	// reply parsed. Drives progress displays.
	OnSample func(valid bool)
}

// New creates a sampler wired with its completer.
func New(completer model.Completer, logger *slog.Logger) *Sampler {
	return &Sampler{
		completer: completer,
		logger:    logger,
	}
}

// Distribution runs the percentile-curve pipeline for req. Replies that fail
// transport or the format check are skipped and reported in warnings; when
// every reply fails, the error is model.ErrNoValidSamples.
func (s *Sampler) Distribution(ctx context.Context, req model.Request) (model.Distribution, []string, error) {
	if err := req.Validate(); err != nil {
		return model.Distribution{}, nil, fmt.Errorf("invalid request: %w", err)
	}
	q := prompt.Distribution(req)

	var samples []model.PercentileSample
	var warnings []string
	for i := 0; i < req.Samples; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("sampling cut short", "collected", len(samples), "cause", err)
			break
		}

		// Transport trouble stays in the developer log; only malformed
		// replies warrant a user-visible warning.
		raw, err := s.completer.Complete(ctx, q.Model, q.Text)
		if err != nil {
			s.logger.Warn("completion failed", "sample", i+1, "error", err)
			s.note(false)
			continue
		}
		s.logger.Debug("completion received", "sample", i+1, "text", raw)

		if !extract.HasPercentiles(raw) {
			warnings = append(warnings, fmt.Sprintf("Unexpected response format: %s", strings.TrimSpace(raw)))
			s.note(false)
			continue
		}

		// A reply that passed the format check counts as valid even when no
		// pairs matched; it simply contributes nothing to any rank.
		samples = append(samples, extract.Percentiles(raw))
		s.note(true)
	}

	if len(samples) == 0 {
		return model.Distribution{}, warnings, model.ErrNoValidSamples
	}

	d := model.Distribution{
		Percentiles: aggregate.MeanByRank(samples),
		Requested:   req.Samples,
		Valid:       len(samples),
	}
	s.logger.Info("distribution sampled",
		"requested", d.Requested,
		"valid", d.Valid,
		"ranks", len(d.Percentiles),
	)
	return d, warnings, nil
}

// Spot runs the single-figure pipeline for req.
func (s *Sampler) Spot(ctx context.Context, req model.Request) (model.SpotEstimate, []string, error) {
	if err := req.Validate(); err != nil {
		return model.SpotEstimate{}, nil, fmt.Errorf("invalid request: %w", err)
	}
	q := prompt.Spot(req)

	var values []int
	var warnings []string
	for i := 0; i < req.Samples; i++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("sampling cut short", "collected", len(values), "cause", err)
			break
		}

		raw, err := s.completer.Complete(ctx, q.Model, q.Text)
		if err != nil {
			s.logger.Warn("completion failed", "sample", i+1, "error", err)
			s.note(false)
			continue
		}
		s.logger.Debug("completion received", "sample", i+1, "text", raw)

		v, err := extract.Amount(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Unexpected response format: %s", strings.TrimSpace(raw)))
			s.note(false)
			continue
		}

		values = append(values, v)
		s.note(true)
	}

	med, err := aggregate.Median(values)
	if err != nil {
		return model.SpotEstimate{}, warnings, err
	}

	est := model.SpotEstimate{
		Median:    med,
		Values:    values,
		Requested: req.Samples,
	}
	s.logger.Info("spot sampled",
		"requested", est.Requested,
		"valid", est.Valid(),
		"median", est.Median,
	)
	return est, warnings, nil
}

func (s *Sampler) note(valid bool) {
	if s.OnSample != nil {
		s.OnSample(valid)
	}
}
