package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	scup "github.com/rcote98/ezSCUP"
)

// Antiferrodistortive rotation modes: consecutive octahedra along the
// rotation axis turn in opposite (antiphase) or equal (in-phase) senses.
const (
	AFDa = "a"
	AFDi = "i"
)

// AFDLabels names the atom slots of a five-atom perovskite cell used by the
// rotation analysis: A cation, B cation, then the oxygens displaced from B
// along x, y and z.
type AFDLabels struct {
	A, B, Ox, Oy, Oz int
}

// AFD computes the oxygen-octahedra rotation angle around each axis for
// every cell of the supercell, in degrees. The return slices run over cells
// in x-major, then y, then z order. Each cell's angle is sign-corrected by
// the stacking pattern of the requested mode, so a perfect AFDa (or AFDi)
// distortion yields the same angle in every cell.
func AFD(g *scup.Geometry, labels AFDLabels, mode string) (xang, yang, zang []float64, err error) {
	if mode != AFDa && mode != AFDi {
		return nil, nil, nil, fmt.Errorf("analysis: unknown AFD mode '%s'", mode)
	}
	for _, slot := range []int{labels.A, labels.B, labels.Ox, labels.Oy, labels.Oz} {
		if slot < 0 || slot >= g.Nats {
			return nil, nil, nil, fmt.Errorf("analysis: AFD label slot %d outside cell with %d atoms", slot, g.Nats)
		}
	}
	xang = make([]float64, 0, g.Ncells)
	yang = make([]float64, 0, g.Ncells)
	zang = make([]float64, 0, g.Ncells)
	for x := 0; x < g.Supercell[0]; x++ {
		for y := 0; y < g.Supercell[1]; y++ {
			for z := 0; z < g.Supercell[2]; z++ {
				ox := g.Displacement(x, y, z, labels.Ox)
				oy := g.Displacement(x, y, z, labels.Oy)
				oz := g.Displacement(x, y, z, labels.Oz)
				// Tangential oxygen displacements against half the
				// cell parameter give the rotation of the octahedron
				// around each axis.
				rotx := 0.5 * (angle(oy[2], g.LatConstants[1]) - angle(oz[1], g.LatConstants[2]))
				roty := 0.5 * (angle(oz[0], g.LatConstants[2]) - angle(ox[2], g.LatConstants[0]))
				rotz := 0.5 * (angle(ox[1], g.LatConstants[0]) - angle(oy[0], g.LatConstants[1]))
				xang = append(xang, stacking(mode, x, y+z)*rotx)
				yang = append(yang, stacking(mode, y, x+z)*roty)
				zang = append(zang, stacking(mode, z, x+y)*rotz)
			}
		}
	}
	return xang, yang, zang, nil
}

func angle(disp, latConstant float64) float64 {
	return math.Atan(disp/(latConstant/2)) * 180 / math.Pi
}

// stacking returns the sign of the rotation in a cell: neighboring cells
// perpendicular to the rotation axis always rotate in opposite senses,
// while cells stacked along the axis alternate only in antiphase mode.
// axis is the cell coordinate along the rotation axis, perp the sum of the
// other two.
func stacking(mode string, axis, perp int) float64 {
	s := perp
	if mode == AFDa {
		s += axis
	}
	if s%2 != 0 {
		return -1
	}
	return 1
}

// MeanRotation summarizes per-cell rotation angles as the mean and standard
// deviation of their absolute values.
func MeanRotation(angles []float64) (mean, std float64) {
	abs := make([]float64, len(angles))
	for i, v := range angles {
		abs[i] = math.Abs(v)
	}
	return stat.Mean(abs, nil), stat.StdDev(abs, nil)
}
