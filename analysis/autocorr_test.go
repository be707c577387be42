package analysis

import (
	"math"
	"testing"
)

func TestAutocorrelation(t *testing.T) {
	// an alternating series is perfectly anticorrelated at lag 1
	n := 64
	series := make([]float64, n)
	for i := range series {
		series[i] = 1
		if i%2 != 0 {
			series[i] = -1
		}
	}
	acf, err := Autocorrelation(series)
	if err != nil {
		t.Fatal(err)
	}
	if len(acf) != n {
		t.Fatalf("got %d lags, want %d", len(acf), n)
	}
	if math.Abs(acf[0]-1) > 1e-9 {
		t.Errorf("lag 0 coefficient %v, want 1", acf[0])
	}
	// zero padding leaves (n-1)/n of the lag-1 products
	want := -float64(n-1) / float64(n)
	if math.Abs(acf[1]-want) > 1e-9 {
		t.Errorf("lag 1 coefficient %v, want %v", acf[1], want)
	}
}

func TestAutocorrelationDegenerate(t *testing.T) {
	if _, err := Autocorrelation([]float64{1}); err == nil {
		t.Error("computed the autocorrelation of a single sample")
	}
	if _, err := Autocorrelation([]float64{2, 2, 2, 2}); err == nil {
		t.Error("computed the autocorrelation of a constant series")
	}
}

func TestCorrelationTime(t *testing.T) {
	// anticorrelated series: the windowed sum stops at lag 1
	alternating := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	tau, err := CorrelationTime(alternating)
	if err != nil {
		t.Fatal(err)
	}
	if tau != 1 {
		t.Errorf("correlation time %v for an anticorrelated series, want 1", tau)
	}
	neff, err := EffectiveSamples(alternating)
	if err != nil {
		t.Fatal(err)
	}
	if neff != 8 {
		t.Errorf("effective samples %v, want 8", neff)
	}
	// a slowly varying series must be correlated
	blocks := make([]float64, 64)
	for i := range blocks {
		blocks[i] = float64((i / 16) % 2)
	}
	tau, err = CorrelationTime(blocks)
	if err != nil {
		t.Fatal(err)
	}
	if tau <= 1 {
		t.Errorf("correlation time %v for a block series, want > 1", tau)
	}
}
