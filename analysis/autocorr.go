package analysis

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// Autocorrelation computes the normalized autocorrelation function of a
// Monte Carlo time series through its FFT, zero-padded to avoid cyclic
// artifacts. The result has one entry per lag, with lag 0 normalized to 1.
// A constant series has no variance to normalize by and fails.
func Autocorrelation(series []float64) ([]float64, error) {
	n := len(series)
	if n < 2 {
		return nil, fmt.Errorf("analysis: autocorrelation needs at least 2 samples, got %d", n)
	}
	mean := stat.Mean(series, nil)
	pad := make([]complex128, 2*n)
	for i, v := range series {
		pad[i] = complex(v-mean, 0)
	}
	f := fourier.NewCmplxFFT(len(pad))
	f.Coefficients(pad, pad)
	for i, v := range pad {
		pad[i] = v * cmplx.Conj(v)
	}
	f.Sequence(pad, pad)
	norm := real(pad[0])
	if norm == 0 {
		return nil, fmt.Errorf("analysis: autocorrelation of a constant series")
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = real(pad[i]) / norm
	}
	return out, nil
}

// CorrelationTime returns the integrated autocorrelation time of a series,
// tau = 1 + 2*sum(acf), with the sum windowed at the first nonpositive
// coefficient. Uncorrelated samples give 1.
func CorrelationTime(series []float64) (float64, error) {
	acf, err := Autocorrelation(series)
	if err != nil {
		return 0, err
	}
	tau := 1.0
	for _, v := range acf[1:] {
		if v <= 0 {
			break
		}
		tau += 2 * v
	}
	return tau, nil
}

// EffectiveSamples estimates the number of statistically independent samples
// in a correlated series, len(series)/tau.
func EffectiveSamples(series []float64) (float64, error) {
	tau, err := CorrelationTime(series)
	if err != nil {
		return 0, err
	}
	return float64(len(series)) / tau, nil
}
