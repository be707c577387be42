package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NormalModes diagonalizes a mass-weighted Hessian and returns the
// eigenvalues (ascending) together with one normalized eigenvector per
// column. The Hessian rows/columns run over the cartesian coordinates of
// each atom, three per atom, and masses holds one atomic mass per atom in
// the same order.
func NormalModes(hessian *mat.SymDense, masses []float64) ([]float64, *mat.Dense, error) {
	n := hessian.SymmetricDim()
	if n != 3*len(masses) {
		return nil, nil, fmt.Errorf("analysis: %dx%d Hessian does not match %d atomic masses", n, n, len(masses))
	}
	for i, m := range masses {
		if m <= 0 {
			return nil, nil, fmt.Errorf("analysis: nonpositive mass %v for atom %d", m, i)
		}
	}
	weighted := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			w := math.Sqrt(masses[i/3] * masses[j/3])
			weighted.SetSym(i, j, hessian.At(i, j)/w)
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(weighted, true) {
		return nil, nil, fmt.Errorf("analysis: mass-weighted Hessian eigendecomposition failed")
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)
	return values, &vectors, nil
}

// Frequency converts a mass-weighted Hessian eigenvalue to a signed mode
// frequency: negative values mark unstable modes, reported as the negative
// of their imaginary frequency magnitude.
func Frequency(eigenvalue float64) float64 {
	if eigenvalue < 0 {
		return -math.Sqrt(-eigenvalue)
	}
	return math.Sqrt(eigenvalue)
}
