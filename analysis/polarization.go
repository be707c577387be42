// Package analysis computes derived physical quantities (polarizations,
// antiferrodistortive rotations, normal modes, time-series statistics) from
// equilibrium geometries and lattice output. The formulas follow the
// perovskite conventions of SCALE-UP; geometries come from the scup and mc
// packages.
package analysis

import (
	"fmt"

	scup "github.com/rcote98/ezSCUP"
)

const (
	e2C    = 1.60217646e-19 // elementary charges to Coulombs
	bohr2m = 5.29177e-11    // Bohr to meters
)

// ToSI converts a polarization from e/bohr2 to C/m2.
func ToSI(p float64) float64 {
	return p * e2C / (bohr2m * bohr2m)
}

// BornCharges maps atom slots within the unit cell to their effective
// charge vectors, in elementary charge units. Only the listed slots
// contribute to the polarization.
type BornCharges map[int][]float64

func (bc BornCharges) check(nats int) error {
	for slot, q := range bc {
		if slot < 0 || slot >= nats {
			return fmt.Errorf("analysis: Born charge for atom slot %d outside cell with %d atoms", slot, nats)
		}
		if len(q) != 3 {
			return fmt.Errorf("analysis: Born charge vector %v of slot %d must have 3 components", q, slot)
		}
	}
	return nil
}

// cellVolume is the strained unit cell volume, in bohr3.
func cellVolume(latConstants [3]float64, strains []float64) float64 {
	v := 1.0
	for i := 0; i < 3; i++ {
		v *= latConstants[i] * (1 + strains[i])
	}
	return v
}

// Polarization computes the macroscopic polarization of a geometry from its
// atomic displacements and the given Born effective charges. The result is
// in C/m2. The geometry needs lattice constants, so it must descend from a
// reference load.
func Polarization(g *scup.Geometry, charges BornCharges) ([3]float64, error) {
	var pol [3]float64
	if err := charges.check(g.Nats); err != nil {
		return pol, err
	}
	volume := float64(g.Ncells) * cellVolume(g.LatConstants, g.Strains)
	for x := 0; x < g.Supercell[0]; x++ {
		for y := 0; y < g.Supercell[1]; y++ {
			for z := 0; z < g.Supercell[2]; z++ {
				for slot, q := range charges {
					tau := g.Displacement(x, y, z, slot)
					for i := 0; i < 3; i++ {
						pol[i] += q[i] * tau[i]
					}
				}
			}
		}
	}
	for i := range pol {
		pol[i] = ToSI(pol[i] / volume)
	}
	return pol, nil
}

// SteppedPolarization computes the polarization of every restart snapshot
// in the list, yielding its evolution along the simulation. The lattice
// constants of the reference geometry are fixed for all snapshots.
func SteppedPolarization(supercell [3]int, species []string, nats int,
	latConstants [3]float64, partials []string, charges BornCharges) ([][3]float64, error) {
	if err := charges.check(nats); err != nil {
		return nil, err
	}
	g, err := scup.NewGeometry(supercell, species, nats)
	if err != nil {
		return nil, err
	}
	g.LatConstants = latConstants
	hist := make([][3]float64, 0, len(partials))
	for _, p := range partials {
		if err := g.LoadRestart(p); err != nil {
			return nil, err
		}
		pol, err := Polarization(g, charges)
		if err != nil {
			return nil, err
		}
		hist = append(hist, pol)
	}
	return hist, nil
}
