package model

import "errors"

// ErrNoValidSamples signals that a run produced no parsable responses at all.
var ErrNoValidSamples = errors.New("no valid samples collected")

// ErrNoMedian signals that an aggregate lacks a 50th percentile value.
var ErrNoMedian = errors.New("aggregate has no 50th percentile")
