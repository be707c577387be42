package scup

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

// Both SCALE-UP geometry formats share a 3-line header (supercell shape,
// atoms per cell plus number of species, species labels), one vector line
// (9 lattice-vector components for .REF files, 6 Voigt strain components
// for .restart files) and one data row per atom in x-major, then y, then z,
// then atom-slot order. Files may additionally be gzip or zstd compressed,
// selected by a .gz or .zst filename suffix.

// zstd.Decoder does not implement io.ReadCloser, so it gets a shim.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (s zstdql) Close() error {
	s.closeql()
	return nil
}

// openGeometry opens a geometry file for reading, transparently
// decompressing it if the filename asks for it. The returned function
// closes the whole reader chain.
func openGeometry(name string) (*bufio.Reader, func() error, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, CError{UnableToOpen + ": " + err.Error(), name, []string{"openGeometry"}, true}
	}
	var h io.ReadCloser
	switch {
	case strings.HasSuffix(name, ".gz"):
		h, err = gzip.NewReader(f)
	case strings.HasSuffix(name, ".zst"):
		var d *zstd.Decoder
		d, err = zstd.NewReader(f)
		if err == nil {
			h = zstdql{d.Close, d}
		}
	default:
		h = f
	}
	if err != nil {
		f.Close()
		return nil, nil, CError{UnableToOpen + ": " + err.Error(), name, []string{"openGeometry"}, true}
	}
	closer := func() error {
		if h != io.ReadCloser(f) {
			h.Close()
		}
		return f.Close()
	}
	return bufio.NewReader(h), closer, nil
}

// createGeometry opens a geometry file for writing, compressing on the fly
// if the filename asks for it. The returned function flushes and closes the
// whole writer chain.
func createGeometry(name string) (*bufio.Writer, func() error, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, CError{UnableToOpen + ": " + err.Error(), name, []string{"createGeometry"}, true}
	}
	var h io.WriteCloser
	switch {
	case strings.HasSuffix(name, ".gz"):
		h = gzip.NewWriter(f)
	case strings.HasSuffix(name, ".zst"):
		h, err = zstd.NewWriter(f)
	default:
		h = f
	}
	if err != nil {
		f.Close()
		return nil, nil, CError{UnableToOpen + ": " + err.Error(), name, []string{"createGeometry"}, true}
	}
	bw := bufio.NewWriter(h)
	closer := func() error {
		if err := bw.Flush(); err != nil {
			f.Close()
			return err
		}
		if h != io.WriteCloser(f) {
			if err := h.Close(); err != nil {
				f.Close()
				return err
			}
		}
		return f.Close()
	}
	return bw, closer, nil
}

// geomHeader is the parsed 3-line header block of a geometry file.
type geomHeader struct {
	supercell [3]int
	nats      int
	nels      int
	species   []string
}

func readLine(r *bufio.Reader, name string) ([]string, error) {
	str, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || str == "") {
		return nil, CError{WrongFormat + ": truncated file", name, []string{"readLine"}, true}
	}
	return strings.Fields(str), nil
}

func parseReals(fields []string, dst []float64, name string) error {
	if len(fields) < len(dst) {
		return CError{fmt.Sprintf("%s: %d real values expected, %d found", WrongFormat, len(dst), len(fields)), name, []string{"parseReals"}, true}
	}
	for i := range dst {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return CError{fmt.Sprintf("%s: can't parse real '%s'", WrongFormat, fields[i]), name, []string{"parseReals"}, true}
		}
		dst[i] = v
	}
	return nil
}

func readGeometryHeader(r *bufio.Reader, name string) (*geomHeader, error) {
	hdr := new(geomHeader)
	fields, err := readLine(r, name)
	if err != nil {
		return nil, err
	}
	if len(fields) < 3 {
		return nil, CError{WrongFormat + ": short supercell line", name, []string{"readGeometryHeader"}, true}
	}
	for i := 0; i < 3; i++ {
		hdr.supercell[i], err = strconv.Atoi(fields[i])
		if err != nil {
			return nil, CError{fmt.Sprintf("%s: can't parse supercell extent '%s'", WrongFormat, fields[i]), name, []string{"readGeometryHeader"}, true}
		}
	}
	fields, err = readLine(r, name)
	if err != nil {
		return nil, err
	}
	if len(fields) < 2 {
		return nil, CError{WrongFormat + ": short atom-count line", name, []string{"readGeometryHeader"}, true}
	}
	if hdr.nats, err = strconv.Atoi(fields[0]); err != nil {
		return nil, CError{fmt.Sprintf("%s: can't parse atoms per cell '%s'", WrongFormat, fields[0]), name, []string{"readGeometryHeader"}, true}
	}
	if hdr.nels, err = strconv.Atoi(fields[1]); err != nil {
		return nil, CError{fmt.Sprintf("%s: can't parse species count '%s'", WrongFormat, fields[1]), name, []string{"readGeometryHeader"}, true}
	}
	if hdr.species, err = readLine(r, name); err != nil {
		return nil, err
	}
	return hdr, nil
}

// checkHeader verifies that the topology declared by a geometry file header
// agrees with the receiver: same supercell shape, same atoms per cell, same
// number of species and the same species set. Species order is not
// significant.
func (g *Geometry) checkHeader(hdr *geomHeader, name string) error {
	if hdr.supercell != g.Supercell {
		return CError{fmt.Sprintf("%s: file supercell %v, target %v", GeometryNotMatching, hdr.supercell, g.Supercell), name, []string{"checkHeader"}, true}
	}
	if hdr.nats != g.Nats || hdr.nels != g.Nels {
		return CError{fmt.Sprintf("%s: file has %d atoms of %d species per cell, target %d of %d", GeometryNotMatching, hdr.nats, hdr.nels, g.Nats, g.Nels), name, []string{"checkHeader"}, true}
	}
	if !sameSpeciesSet(g.Species, hdr.species) {
		return CError{fmt.Sprintf("%s: file species %v, target %v", GeometryNotMatching, hdr.species, g.Species), name, []string{"checkHeader"}, true}
	}
	return nil
}

// readAtomRows fills one row of dst per atom of the supercell, following the
// fixed x, y, z, slot nesting order of the on-disk formats. Each data row
// carries five leading integer fields which only identify the atom; they are
// redundant with the row order and are not interpreted.
func (g *Geometry) readAtomRows(r *bufio.Reader, dst *mat.Dense, name string) error {
	var vec [3]float64
	for x := 0; x < g.Supercell[0]; x++ {
		for y := 0; y < g.Supercell[1]; y++ {
			for z := 0; z < g.Supercell[2]; z++ {
				for j := 0; j < g.Nats; j++ {
					fields, err := readLine(r, name)
					if err != nil {
						return err
					}
					if len(fields) < 8 {
						return CError{fmt.Sprintf("%s: short atom row (%d fields)", WrongFormat, len(fields)), name, []string{"readAtomRows"}, true}
					}
					if err := parseReals(fields[5:8], vec[:], name); err != nil {
						return err
					}
					dst.SetRow(g.Row(x, y, z, j), vec[:])
				}
			}
		}
	}
	return nil
}

// LoadRestart loads the strains and atomic displacements of the given
// .restart file. The file topology is validated against the receiver before
// anything is touched: on any error the geometry keeps its previous state.
func (g *Geometry) LoadRestart(name string) error {
	r, closer, err := openGeometry(name)
	if err != nil {
		return errDecorate(err, "LoadRestart")
	}
	defer closer()
	hdr, err := readGeometryHeader(r, name)
	if err != nil {
		return errDecorate(err, "LoadRestart")
	}
	if err := g.checkHeader(hdr, name); err != nil {
		return errDecorate(err, "LoadRestart")
	}
	strains := make([]float64, 6)
	fields, err := readLine(r, name)
	if err != nil {
		return errDecorate(err, "LoadRestart")
	}
	if err := parseReals(fields, strains, name); err != nil {
		return errDecorate(err, "LoadRestart")
	}
	disp := mat.NewDense(g.Ncells*g.Nats, 3, nil)
	if err := g.readAtomRows(r, disp, name); err != nil {
		return errDecorate(err, "LoadRestart")
	}
	g.Strains = strains
	g.displacements = disp
	return nil
}

// LoadReference loads the lattice vectors and reference atomic positions of
// the given .REF file, validating its topology against the receiver.
// Strains and displacements are zeroed on success, so the geometry
// describes the unperturbed reference structure.
func (g *Geometry) LoadReference(name string) error {
	r, closer, err := openGeometry(name)
	if err != nil {
		return errDecorate(err, "LoadReference")
	}
	defer closer()
	hdr, err := readGeometryHeader(r, name)
	if err != nil {
		return errDecorate(err, "LoadReference")
	}
	if err := g.checkHeader(hdr, name); err != nil {
		return errDecorate(err, "LoadReference")
	}
	return errDecorate(g.readReferenceBody(r, name), "LoadReference")
}

func (g *Geometry) readReferenceBody(r *bufio.Reader, name string) error {
	vectors := make([]float64, 9)
	fields, err := readLine(r, name)
	if err != nil {
		return err
	}
	if err := parseReals(fields, vectors, name); err != nil {
		return err
	}
	pos := mat.NewDense(g.Ncells*g.Nats, 3, nil)
	if err := g.readAtomRows(r, pos, name); err != nil {
		return err
	}
	g.LatVectors = vectors
	g.positions = pos
	g.latticeConstantsFromVectors()
	g.Reset()
	return nil
}

// ReadReference reads a .REF file without a preexisting topology: the
// returned Geometry takes its supercell, species and atoms per cell from
// the file header.
func ReadReference(name string) (*Geometry, error) {
	r, closer, err := openGeometry(name)
	if err != nil {
		return nil, errDecorate(err, "ReadReference")
	}
	defer closer()
	hdr, err := readGeometryHeader(r, name)
	if err != nil {
		return nil, errDecorate(err, "ReadReference")
	}
	g, err := NewGeometry(hdr.supercell, hdr.species, hdr.nats)
	if err != nil {
		return nil, err
	}
	if err := g.readReferenceBody(r, name); err != nil {
		return nil, errDecorate(err, "ReadReference")
	}
	return g, nil
}

func (g *Geometry) writeHeader(w *bufio.Writer) {
	fmt.Fprintf(w, "%d\t%d\t%d\n", g.Supercell[0], g.Supercell[1], g.Supercell[2])
	fmt.Fprintf(w, "%d\t%d\n", g.Nats, g.Nels)
	fmt.Fprintf(w, "%s\n", strings.Join(g.Species, "\t"))
}

func writeRealRow(w *bufio.Writer, vals []float64) {
	for i, v := range vals {
		if i > 0 {
			w.WriteByte('\t')
		}
		fmt.Fprintf(w, "%.8E", v)
	}
	w.WriteByte('\n')
}

// writeAtomRows writes one row per atom in the fixed nesting order. The
// fifth integer field is min(slot+1, nels): SCALE-UP uses it as a species
// index placeholder, which stops being a faithful lookup once a cell holds
// more atoms than species. It is reproduced exactly for round-trip
// fidelity.
func (g *Geometry) writeAtomRows(w *bufio.Writer, src *mat.Dense) {
	for x := 0; x < g.Supercell[0]; x++ {
		for y := 0; y < g.Supercell[1]; y++ {
			for z := 0; z < g.Supercell[2]; z++ {
				for j := 0; j < g.Nats; j++ {
					sp := j + 1
					if sp > g.Nels {
						sp = g.Nels
					}
					row := src.RawRowView(g.Row(x, y, z, j))
					fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\t%.8E\t%.8E\t%.8E\n",
						x, y, z, j+1, sp, row[0], row[1], row[2])
				}
			}
		}
	}
}

// WriteRestart writes the current strains and displacements as a .restart
// file. The file is overwritten if it exists.
func (g *Geometry) WriteRestart(name string) error {
	w, closer, err := createGeometry(name)
	if err != nil {
		return errDecorate(err, "WriteRestart")
	}
	g.writeHeader(w)
	writeRealRow(w, g.Strains)
	g.writeAtomRows(w, g.displacements)
	return closer()
}

// WriteReference writes the current lattice vectors and reference positions
// as a .REF file. It fails if no reference positions have been loaded.
func (g *Geometry) WriteReference(name string) error {
	if g.positions == nil {
		return CError{PositionsNotLoaded, name, []string{"WriteReference"}, true}
	}
	w, closer, err := createGeometry(name)
	if err != nil {
		return errDecorate(err, "WriteReference")
	}
	g.writeHeader(w)
	writeRealRow(w, g.LatVectors)
	g.writeAtomRows(w, g.positions)
	return closer()
}
