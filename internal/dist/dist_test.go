package dist

import (
	"math"
	"testing"
)

func TestFitLogNormal(t *testing.T) {
	values := []float64{50000, 60000, 75000, 90000, 110000}
	fit, err := FitLogNormal(values)
	if err != nil {
		t.Fatalf("FitLogNormal() error = %v", err)
	}
	if math.Abs(fit.Shape-0.02502) > 0.002 {
		t.Errorf("Shape = %v, want ≈ 0.02502", fit.Shape)
	}
	if math.Abs(fit.Scale-11.209) > 0.05 {
		t.Errorf("Scale = %v, want ≈ 11.209", fit.Scale)
	}
}

func TestFitLogNormal_Errors(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{name: "empty", values: nil},
		{name: "value at one", values: []float64{1, 50000}},
		{name: "value below one", values: []float64{0.5, 50000}},
		{name: "identical values", values: []float64{75000, 75000, 75000}},
		{name: "single value", values: []float64{75000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FitLogNormal(tt.values); err == nil {
				t.Errorf("FitLogNormal(%v) expected an error", tt.values)
			}
		})
	}
}

func TestDensity(t *testing.T) {
	fit := Fit{Shape: 0.5, Scale: 10}
	// Peak of a log-normal sits below the scale; density must be positive
	// around it and fall off on both sides.
	at5, at10, at100 := fit.Density(5), fit.Density(10), fit.Density(100)
	if at10 <= 0 {
		t.Fatalf("Density(10) = %v, want > 0", at10)
	}
	if at100 >= at10 {
		t.Errorf("Density(100) = %v, want below Density(10) = %v", at100, at10)
	}
	if at5 <= 0 {
		t.Errorf("Density(5) = %v, want > 0", at5)
	}
}

func TestCurve(t *testing.T) {
	fit := Fit{Shape: 0.5, Scale: 10}
	pts := Curve(fit, 2, 40, CurvePoints)

	if len(pts) != CurvePoints {
		t.Fatalf("Curve() returned %d points, want %d", len(pts), CurvePoints)
	}
	if pts[0].X != 2 {
		t.Errorf("first X = %v, want 2", pts[0].X)
	}
	if pts[len(pts)-1].X != 40 {
		t.Errorf("last X = %v, want 40", pts[len(pts)-1].X)
	}
	for i, p := range pts {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) || p.Y < 0 {
			t.Fatalf("point %d has invalid density %v", i, p.Y)
		}
		if i > 0 && pts[i].X <= pts[i-1].X {
			t.Fatalf("grid not increasing at point %d", i)
		}
	}
}

func TestHistogram(t *testing.T) {
	values := []int{100, 200, 300, 400}
	bins, err := Histogram(values, 2)
	if err != nil {
		t.Fatalf("Histogram() error = %v", err)
	}
	if len(bins) != 2 {
		t.Fatalf("Histogram() returned %d bins, want 2", len(bins))
	}
	if bins[0].Count != 2 || bins[1].Count != 2 {
		t.Errorf("bin counts = %d, %d, want 2, 2", bins[0].Count, bins[1].Count)
	}
	if bins[0].Low != 100 || bins[1].High != 400 {
		t.Errorf("bin range = [%v, %v], want [100, 400]", bins[0].Low, bins[1].High)
	}
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	if total != len(values) {
		t.Errorf("binned %d values, want %d", total, len(values))
	}
}

func TestHistogram_TopValueLandsInLastBin(t *testing.T) {
	bins, err := Histogram([]int{0, 10}, 5)
	if err != nil {
		t.Fatalf("Histogram() error = %v", err)
	}
	if bins[len(bins)-1].Count != 1 {
		t.Errorf("top value not counted in last bin: %+v", bins)
	}
}

func TestHistogram_SingleValue(t *testing.T) {
	bins, err := Histogram([]int{120000, 120000, 120000}, 10)
	if err != nil {
		t.Fatalf("Histogram() error = %v", err)
	}
	if len(bins) != 1 || bins[0].Count != 3 {
		t.Errorf("Histogram() = %+v, want one bin holding all 3 values", bins)
	}
}

func TestHistogram_Errors(t *testing.T) {
	if _, err := Histogram(nil, 10); err == nil {
		t.Error("Histogram(nil) expected an error")
	}
	if _, err := Histogram([]int{1, 2}, 0); err == nil {
		t.Error("Histogram(bins=0) expected an error")
	}
}
