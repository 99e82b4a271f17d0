package model

import (
	"errors"
	"testing"
)

func validRequest() Request {
	return Request{
		Title:    "Product Manager",
		Company:  "Google",
		Location: "New York City",
		Tier:     TierSonnet,
		Samples:  10,
	}
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr bool
	}{
		{name: "valid request", mutate: func(r *Request) {}, wantErr: false},
		{name: "empty strings pass through", mutate: func(r *Request) {
			r.Title, r.Company, r.Location = "", "", ""
		}, wantErr: false},
		{name: "unknown tier", mutate: func(r *Request) { r.Tier = "gpt-4" }, wantErr: true},
		{name: "zero samples", mutate: func(r *Request) { r.Samples = 0 }, wantErr: true},
		{name: "negative samples", mutate: func(r *Request) { r.Samples = -3 }, wantErr: true},
		{name: "too many samples", mutate: func(r *Request) { r.Samples = MaxSamples + 1 }, wantErr: true},
		{name: "single sample allowed", mutate: func(r *Request) { r.Samples = 1 }, wantErr: false},
		{name: "upper bound allowed", mutate: func(r *Request) { r.Samples = MaxSamples }, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{in: "haiku", want: TierHaiku},
		{in: "Sonnet", want: TierSonnet},
		{in: " OPUS ", want: TierOpus},
		{in: "turbo", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseTier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTier_Model(t *testing.T) {
	seen := map[string]Tier{}
	for _, tier := range Tiers() {
		id := tier.Model()
		if id == "" {
			t.Fatalf("tier %q has no model identifier", tier)
		}
		if prev, dup := seen[id]; dup {
			t.Errorf("tiers %q and %q share model %q", prev, tier, id)
		}
		seen[id] = tier
	}
	if got := Tier("mini").Model(); got != "" {
		t.Errorf("unknown tier Model() = %q, want empty", got)
	}
}

func TestDistribution_RanksAndMedian(t *testing.T) {
	d := Distribution{Percentiles: map[int]float64{90: 110000, 10: 50000, 50: 75000}}

	ranks := d.Ranks()
	want := []int{10, 50, 90}
	if len(ranks) != len(want) {
		t.Fatalf("Ranks() = %v, want %v", ranks, want)
	}
	for i := range want {
		if ranks[i] != want[i] {
			t.Fatalf("Ranks() = %v, want %v", ranks, want)
		}
	}

	vals := d.Values()
	if vals[0] != 50000 || vals[1] != 75000 || vals[2] != 110000 {
		t.Errorf("Values() = %v, want values in rank order", vals)
	}

	med, ok := d.Median()
	if !ok || med != 75000 {
		t.Errorf("Median() = %v, %v, want 75000, true", med, ok)
	}

	if _, ok := (Distribution{Percentiles: map[int]float64{10: 1}}).Median(); ok {
		t.Error("Median() reported a median with no 50th percentile present")
	}
}

func TestSentinelErrors(t *testing.T) {
	wrapped := errors.Join(ErrNoValidSamples)
	if !errors.Is(wrapped, ErrNoValidSamples) {
		t.Error("ErrNoValidSamples does not survive wrapping")
	}
}
