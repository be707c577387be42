package scup

// LoadEquilibrium obtains the equilibrium geometry out of several .restart
// snapshots by averaging their strains and atomic displacements into the
// receiver. Every file must match the receiver's topology.
//
// Each file's contribution is divided by the number of files before being
// added, so intermediate values stay bounded; the output matches a
// sum-then-divide average only up to floating-point rounding.
//
// The accumulation runs in a scratch geometry committed on full success:
// if any file fails to parse or validate, the receiver keeps its previous
// strains and displacements.
func (g *Geometry) LoadEquilibrium(partials []string) error {
	n := len(partials)
	if n == 0 {
		return CError{NotEnoughPartials, "", []string{"LoadEquilibrium"}, true}
	}
	scratch, err := NewGeometry(g.Supercell, g.Species, g.Nats)
	if err != nil {
		return err
	}
	part, err := NewGeometry(g.Supercell, g.Species, g.Nats)
	if err != nil {
		return err
	}
	fn := float64(n)
	for _, p := range partials {
		if err := part.LoadRestart(p); err != nil {
			return errDecorate(err, "LoadEquilibrium")
		}
		for i, v := range part.Strains {
			scratch.Strains[i] += v / fn
		}
		dst := scratch.displacements.RawMatrix().Data
		src := part.displacements.RawMatrix().Data
		for i, v := range src {
			dst[i] += v / fn
		}
	}
	g.Strains = scratch.Strains
	g.displacements = scratch.displacements
	return nil
}
