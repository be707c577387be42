package scup

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Geometry is a container for the lattice geometry of one SCALE-UP
// simulation: a supercell of Supercell[0]*Supercell[1]*Supercell[2] unit
// cells with Nats atoms each. On creation all displacements and strains are
// zero and no reference positions are present; they are filled by the
// LoadReference, LoadRestart and LoadEquilibrium methods, or by direct
// access for geometry generation.
//
// Positions and displacements are stored as (Ncells*Nats)x3 matrices, one
// row per atom slot, in x-major, then y, then z, then slot order. The Row
// method maps a (cell, slot) tuple to its row.
type Geometry struct {
	Supercell [3]int
	Ncells    int
	Species   []string // distinct element labels
	Nats      int      // atoms per unit cell
	Nels      int      // len(Species)

	// Strains holds the supercell strains in Voigt notation
	// (xx, yy, zz, yz, xz, xy).
	Strains []float64

	// LatVectors holds the 3x3 supercell lattice vectors row-major, in
	// Bohr. Nil until a reference file is loaded.
	LatVectors []float64

	// LatConstants holds the xx, yy, zz lattice constants of the unit
	// cell, in Bohr. Derived from LatVectors on reference load.
	LatConstants [3]float64

	positions     *mat.Dense // nil until a reference file is loaded
	displacements *mat.Dense

	slots map[string][]int // element label -> atom slots within a cell
}

// NewGeometry returns an empty Geometry for the given supercell shape,
// element labels and number of atoms per unit cell.
func NewGeometry(supercell [3]int, species []string, nats int) (*Geometry, error) {
	for _, v := range supercell {
		if v <= 0 {
			return nil, fmt.Errorf("scup.NewGeometry: nonpositive supercell extent in %v", supercell)
		}
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("scup.NewGeometry: no atomic species given")
	}
	if nats < len(species) {
		return nil, fmt.Errorf("scup.NewGeometry: %d atoms per cell cannot fit %d species", nats, len(species))
	}
	g := &Geometry{
		Supercell: supercell,
		Ncells:    supercell[0] * supercell[1] * supercell[2],
		Species:   append([]string{}, species...),
		Nats:      nats,
		Nels:      len(species),
		Strains:   make([]float64, 6),
	}
	g.displacements = mat.NewDense(g.Ncells*g.Nats, 3, nil)
	g.slots = make(map[string][]int, g.Nels)
	for j := 0; j < g.Nats; j++ {
		label := g.Species[speciesIndex(j, g.Nels)]
		g.slots[label] = append(g.slots[label], j)
	}
	return g, nil
}

// speciesIndex maps an atom slot within the cell to an index into the
// species list. Slots past the last species all map to it, following the
// SCALE-UP perovskite convention (e.g. Sr, Ti, O, O, O).
func speciesIndex(slot, nels int) int {
	if slot >= nels {
		return nels - 1
	}
	return slot
}

// Reset sets all strain and atomic displacement info back to zero. The
// reference positions, if loaded, are kept.
func (g *Geometry) Reset() {
	for i := range g.Strains {
		g.Strains[i] = 0
	}
	g.displacements.Zero()
}

// Row returns the row of the position/displacement matrices that holds atom
// slot j of cell (x, y, z). It panics if the indices fall outside the
// supercell.
func (g *Geometry) Row(x, y, z, j int) int {
	if x < 0 || x >= g.Supercell[0] || y < 0 || y >= g.Supercell[1] ||
		z < 0 || z >= g.Supercell[2] || j < 0 || j >= g.Nats {
		panic(fmt.Sprintf("ezSCUP/scup: cell index (%d,%d,%d,%d) outside %v supercell with %d atoms per cell",
			x, y, z, j, g.Supercell, g.Nats))
	}
	return ((x*g.Supercell[1]+y)*g.Supercell[2]+z)*g.Nats + j
}

// Displacements returns the (Ncells*Nats)x3 displacement matrix, in Bohr.
// The matrix is owned by the Geometry; changes to it are seen by it.
func (g *Geometry) Displacements() *mat.Dense { return g.displacements }

// Displacement returns the displacement vector of atom slot j of cell
// (x, y, z) as a length-3 slice backed by the displacement matrix.
func (g *Geometry) Displacement(x, y, z, j int) []float64 {
	return g.displacements.RawRowView(g.Row(x, y, z, j))
}

// HasPositions returns whether reference positions have been loaded.
func (g *Geometry) HasPositions() bool { return g.positions != nil }

// Positions returns the (Ncells*Nats)x3 reference position matrix, in Bohr,
// or nil if no reference file has been loaded.
func (g *Geometry) Positions() *mat.Dense { return g.positions }

// Position returns the reference position of atom slot j of cell (x, y, z)
// as a length-3 slice backed by the position matrix. It panics if no
// reference has been loaded.
func (g *Geometry) Position(x, y, z, j int) []float64 {
	if g.positions == nil {
		panic("ezSCUP/scup: " + PositionsNotLoaded)
	}
	return g.positions.RawRowView(g.Row(x, y, z, j))
}

// SpeciesSlots returns the atom slots within one unit cell that carry the
// given element label, or nil for an unknown label.
func (g *Geometry) SpeciesSlots(label string) []int {
	s, ok := g.slots[label]
	if !ok {
		return nil
	}
	return append([]int{}, s...)
}

// SlotSpecies returns the element label of atom slot j within a unit cell.
func (g *Geometry) SlotSpecies(j int) string {
	if j < 0 || j >= g.Nats {
		panic(fmt.Sprintf("ezSCUP/scup: atom slot %d outside cell with %d atoms", j, g.Nats))
	}
	return g.Species[speciesIndex(j, g.Nels)]
}

// latticeConstantsFromVectors extracts the diagonal of the lattice-vector
// matrix and normalizes each component by the corresponding supercell
// extent. Called once after a reference load.
func (g *Geometry) latticeConstantsFromVectors() {
	for i := 0; i < 3; i++ {
		g.LatConstants[i] = g.LatVectors[4*i] / float64(g.Supercell[i])
	}
}

// sameSpeciesSet compares two species lists as unordered sets.
func sameSpeciesSet(a, b []string) bool {
	set := make(map[string]bool, len(a))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		if !set[s] {
			return false
		}
	}
	for _, s := range a {
		found := false
		for _, t := range b {
			if s == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
