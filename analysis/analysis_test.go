package analysis

import (
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	scup "github.com/rcote98/ezSCUP"
)

func perovskite(t *testing.T, supercell [3]int) *scup.Geometry {
	t.Helper()
	g, err := scup.NewGeometry(supercell, []string{"Sr", "Ti", "O"}, 5)
	if err != nil {
		t.Fatal(err)
	}
	g.LatConstants = [3]float64{7.4, 7.4, 7.4}
	return g
}

func TestPolarization(t *testing.T) {
	g := perovskite(t, [3]int{1, 1, 1})
	g.Displacement(0, 0, 0, 1)[0] = 0.1 // Ti off-centering along x
	charges := BornCharges{1: {2, 2, 2}}
	pol, err := Polarization(g, charges)
	if err != nil {
		t.Fatal(err)
	}
	volume := 7.4 * 7.4 * 7.4
	want := ToSI(2 * 0.1 / volume)
	if math.Abs(pol[0]-want) > 1e-12*math.Abs(want) {
		t.Errorf("Pol_x %v, want %v", pol[0], want)
	}
	if pol[1] != 0 || pol[2] != 0 {
		t.Errorf("polarization %v along undisplaced axes, want zero", pol[1:])
	}
}

func TestPolarizationStrained(t *testing.T) {
	// tensile strain grows the cell volume, shrinking the polarization
	g := perovskite(t, [3]int{1, 1, 1})
	g.Displacement(0, 0, 0, 1)[0] = 0.1
	charges := BornCharges{1: {2, 2, 2}}
	unstrained, err := Polarization(g, charges)
	if err != nil {
		t.Fatal(err)
	}
	g.Strains[0] = 0.5
	strained, err := Polarization(g, charges)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(strained[0]-unstrained[0]/1.5) > 1e-12*unstrained[0] {
		t.Errorf("strained Pol_x %v, want %v", strained[0], unstrained[0]/1.5)
	}
}

func TestPolarizationBadCharges(t *testing.T) {
	g := perovskite(t, [3]int{1, 1, 1})
	if _, err := Polarization(g, BornCharges{7: {1, 1, 1}}); err == nil {
		t.Error("accepted a Born charge outside the cell")
	}
	if _, err := Polarization(g, BornCharges{1: {1, 1}}); err == nil {
		t.Error("accepted a 2-component Born charge vector")
	}
}

func TestSteppedPolarization(t *testing.T) {
	dir := t.TempDir()
	g := perovskite(t, [3]int{1, 1, 1})
	names := []string{}
	for i, d := range []float64{0.1, 0.2} {
		g.Displacement(0, 0, 0, 1)[0] = d
		name := filepath.Join(dir, []string{"a", "b"}[i]+".restart")
		if err := g.WriteRestart(name); err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}
	hist, err := SteppedPolarization([3]int{1, 1, 1}, []string{"Sr", "Ti", "O"}, 5,
		[3]float64{7.4, 7.4, 7.4}, names, BornCharges{1: {2, 2, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("got %d polarization samples, want 2", len(hist))
	}
	if hist[1][0] <= hist[0][0] {
		t.Errorf("polarization history %v not growing with the displacement", hist)
	}
}

// afdPattern writes a pure octahedra rotation around z of tangential
// magnitude d into the oxygen displacements, with the given per-cell sign
// function.
func afdPattern(g *scup.Geometry, d float64, sign func(x, y, z int) float64) {
	for x := 0; x < g.Supercell[0]; x++ {
		for y := 0; y < g.Supercell[1]; y++ {
			for z := 0; z < g.Supercell[2]; z++ {
				s := sign(x, y, z)
				g.Displacement(x, y, z, 2)[1] = s * d
				g.Displacement(x, y, z, 3)[0] = -s * d
			}
		}
	}
}

func TestAFDAntiphase(t *testing.T) {
	g := perovskite(t, [3]int{2, 2, 2})
	d := 0.2
	afdPattern(g, d, func(x, y, z int) float64 {
		if (x+y+z)%2 != 0 {
			return -1
		}
		return 1
	})
	labels := AFDLabels{A: 0, B: 1, Ox: 2, Oy: 3, Oz: 4}
	xang, yang, zang, err := AFD(g, labels, AFDa)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Atan(d/(7.4/2)) * 180 / math.Pi
	for i, a := range zang {
		if math.Abs(a-want) > 1e-12 {
			t.Errorf("cell %d: z rotation %v, want %v", i, a, want)
		}
	}
	for i := range xang {
		if xang[i] != 0 || yang[i] != 0 {
			t.Errorf("cell %d: spurious x/y rotation %v %v", i, xang[i], yang[i])
		}
	}
	mean, std := MeanRotation(zang)
	if math.Abs(mean-want) > 1e-12 || std > 1e-12 {
		t.Errorf("mean rotation (%v, %v), want (%v, 0)", mean, std, want)
	}
}

func TestAFDInphase(t *testing.T) {
	// in-phase: cells stacked along the rotation axis turn the same way
	g := perovskite(t, [3]int{2, 2, 2})
	d := 0.2
	afdPattern(g, d, func(x, y, z int) float64 {
		if (x+y)%2 != 0 {
			return -1
		}
		return 1
	})
	labels := AFDLabels{A: 0, B: 1, Ox: 2, Oy: 3, Oz: 4}
	_, _, zang, err := AFD(g, labels, AFDi)
	if err != nil {
		t.Fatal(err)
	}
	want := math.Atan(d/(7.4/2)) * 180 / math.Pi
	for i, a := range zang {
		if math.Abs(a-want) > 1e-12 {
			t.Errorf("cell %d: z rotation %v, want %v", i, a, want)
		}
	}
}

func TestAFDValidation(t *testing.T) {
	g := perovskite(t, [3]int{2, 2, 2})
	labels := AFDLabels{A: 0, B: 1, Ox: 2, Oy: 3, Oz: 4}
	if _, _, _, err := AFD(g, labels, "x"); err == nil {
		t.Error("accepted an unknown AFD mode")
	}
	if _, _, _, err := AFD(g, AFDLabels{A: 0, B: 1, Ox: 2, Oy: 3, Oz: 9}, AFDa); err == nil {
		t.Error("accepted a label slot outside the cell")
	}
}

func TestNormalModes(t *testing.T) {
	// one atom of mass 4 with a diagonal Hessian: the weighted eigenvalues
	// are the diagonal over the mass
	h := mat.NewSymDense(3, []float64{16, 0, 0, 0, 4, 0, 0, 0, 36})
	values, vectors, err := NormalModes(h, []float64{4})
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 4, 9}
	for i, v := range values {
		if math.Abs(v-want[i]) > 1e-9 {
			t.Errorf("eigenvalue %d: %v, want %v", i, v, want[i])
		}
	}
	// the softest mode is along y
	if r, c := vectors.Dims(); r != 3 || c != 3 {
		t.Fatalf("eigenvector matrix is %dx%d, want 3x3", r, c)
	}
	if math.Abs(math.Abs(vectors.At(1, 0))-1) > 1e-9 {
		t.Errorf("softest mode %v, want the y axis", mat.Col(nil, 0, vectors))
	}
	if math.Abs(Frequency(values[2])-3) > 1e-9 {
		t.Errorf("frequency %v, want 3", Frequency(values[2]))
	}
	if Frequency(-4) != -2 {
		t.Errorf("unstable mode frequency %v, want -2", Frequency(-4))
	}
}

func TestNormalModesValidation(t *testing.T) {
	h := mat.NewSymDense(3, nil)
	if _, _, err := NormalModes(h, []float64{1, 1}); err == nil {
		t.Error("accepted a Hessian not matching the mass count")
	}
	if _, _, err := NormalModes(h, []float64{0}); err == nil {
		t.Error("accepted a zero atomic mass")
	}
}

func TestColumnStats(t *testing.T) {
	d := &scup.LatticeData{
		Columns: []string{"E_total"},
		Steps:   []int{10, 20, 30},
		Rows:    [][]float64{{1}, {2}, {3}},
	}
	mean, std, err := ColumnStats(d, "E_total")
	if err != nil {
		t.Fatal(err)
	}
	if mean != 2 || math.Abs(std-1) > 1e-12 {
		t.Errorf("stats (%v, %v), want (2, 1)", mean, std)
	}
	if _, _, err := ColumnStats(d, "Pol_x"); err == nil {
		t.Error("got stats for a column not in the series")
	}
}
