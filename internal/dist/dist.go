// Package dist fits a log-normal curve to aggregated percentile salaries and
// bins spot samples for charting.
package dist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CurvePoints is the grid size the fitted density is evaluated on.
const CurvePoints = 100

// Fit holds the parameters of a log-normal fitted with location fixed at zero.
type Fit struct {
	Shape float64 // sigma of the underlying normal
	Scale float64 // exp(mu) of the underlying normal
}

// FitLogNormal runs a maximum-likelihood log-normal fit over the natural logs
// of the percentile salaries. Every value must exceed 1 so its log stays
// positive, and the logs must not all coincide.
func FitLogNormal(values []float64) (Fit, error) {
	if len(values) == 0 {
		return Fit{}, fmt.Errorf("no values to fit")
	}
	logs := make([]float64, len(values))
	for i, v := range values {
		if v <= 1 {
			return Fit{}, fmt.Errorf("cannot fit log-normal to value %v at or below 1", v)
		}
		logs[i] = math.Log(math.Log(v))
	}
	mu := stat.Mean(logs, nil)
	var ss float64
	for _, l := range logs {
		d := l - mu
		ss += d * d
	}
	sigma := math.Sqrt(ss / float64(len(logs)))
	if sigma == 0 {
		return Fit{}, fmt.Errorf("cannot fit log-normal to identical values")
	}
	return Fit{Shape: sigma, Scale: math.Exp(mu)}, nil
}

// Density evaluates the fitted probability density at x.
func (f Fit) Density(x float64) float64 {
	ln := distuv.LogNormal{Mu: math.Log(f.Scale), Sigma: f.Shape}
	return ln.Prob(x)
}

// Point is one sample of the fitted curve.
type Point struct {
	X float64 // salary
	Y float64 // density
}

// Curve evaluates the fitted density over an n-point linear grid from lo to hi,
// endpoints included.
func Curve(f Fit, lo, hi float64, n int) []Point {
	xs := make([]float64, n)
	floats.Span(xs, lo, hi)
	pts := make([]Point, n)
	for i, x := range xs {
		pts[i] = Point{X: x, Y: f.Density(x)}
	}
	return pts
}

// Bin is one histogram bucket. Buckets are half-open except the last, which
// includes the top value.
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram buckets values into `bins` equal-width buckets spanning the full
// value range. A single distinct value collapses into one bucket.
func Histogram(values []int, bins int) ([]Bin, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to bin")
	}
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}
	lo, hi := float64(values[0]), float64(values[0])
	for _, v := range values[1:] {
		f := float64(v)
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}, nil
	}
	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Low: lo + float64(i)*width, High: lo + float64(i+1)*width}
	}
	out[bins-1].High = hi
	for _, v := range values {
		idx := int((float64(v) - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out, nil
}
