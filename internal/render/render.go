// Package render draws finished runs for the terminal: the one-line median
// verdict, the percentile table and a chart of the salary distribution.
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/pterm/pterm"
	"gonum.org/v1/gonum/floats"

	"github.com/paydar/paydar/internal/dist"
	"github.com/paydar/paydar/internal/model"
)

const (
	chartHeight   = 12
	chartWidth    = 72
	histogramBins = 10
)

// USD formats a salary as a whole-dollar currency string.
func USD(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// ColorUSD colors the formatted salary by compensation band.
func ColorUSD(v float64) string {
	s := USD(v)
	switch {
	case v >= 400000:
		return pterm.Green(s)
	case v >= 300000:
		return pterm.LightGreen(s)
	case v >= 100000:
		return pterm.Yellow(s)
	default:
		return pterm.Red(s)
	}
}

// Distribution writes the averaged percentile summary followed by the fitted
// density curve. The median line is written before the fit runs, so a fit
// failure still leaves the headline number on screen.
func Distribution(w io.Writer, d model.Distribution) error {
	med, ok := d.Median()
	if !ok {
		return model.ErrNoMedian
	}
	fmt.Fprintf(w, "Claude predicts a median salary of %s\n\n", ColorUSD(med))

	for _, r := range d.Ranks() {
		fmt.Fprintf(w, "  %2dth percentile  %12s\n", r, USD(d.Percentiles[r]))
	}
	fmt.Fprintf(w, "\nBased on %d valid of %d requested samples.\n", d.Valid, d.Requested)

	values := d.Values()
	fit, err := dist.FitLogNormal(values)
	if err != nil {
		return fmt.Errorf("fit salary distribution: %w", err)
	}
	lo, hi := floats.Min(values), floats.Max(values)
	pts := dist.Curve(fit, lo, hi, dist.CurvePoints)
	ys := make([]float64, len(pts))
	for i, p := range pts {
		ys[i] = p.Y
	}
	plot := asciigraph.Plot(ys,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Caption("Predicted Salary Distribution"),
	)
	fmt.Fprintln(w)
	fmt.Fprintln(w, plot)
	fmt.Fprintf(w, "Salary from %s to %s\n", USD(lo), USD(hi))
	return nil
}

// Spot writes the spot-check summary and a histogram of the raw figures.
func Spot(w io.Writer, est model.SpotEstimate) error {
	fmt.Fprintf(w, "Claude predicts a median salary of %s\n\n", ColorUSD(est.Median))
	fmt.Fprintf(w, "Based on %d valid of %d requested samples.\n", est.Valid(), est.Requested)

	bins, err := dist.Histogram(est.Values, histogramBins)
	if err != nil {
		return fmt.Errorf("bin salary samples: %w", err)
	}
	bars := make(pterm.Bars, len(bins))
	for i, b := range bins {
		bars[i] = pterm.Bar{
			Label: fmt.Sprintf("%s-%s", USD(b.Low), USD(b.High)),
			Value: b.Count,
		}
	}
	chart, err := pterm.DefaultBarChart.WithHorizontal().WithShowValue().WithBars(bars).Srender()
	if err != nil {
		return fmt.Errorf("render histogram: %w", err)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, chart)
	return nil
}
