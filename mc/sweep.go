/*Package mc maps a multi-dimensional Monte Carlo parameter sweep
(temperature, stress, strain, electric field) onto the SCALE-UP output
folder scheme, and loads simulated configurations back as equilibrium
geometries.

Each configuration of a sweep gets an 8-digit identifier formed by the
0-based position of its parameters within the registered value lists, two
digits per axis in temperature, stress, strain, field order, so a sweep with
temp=[20,40,60] stores everything simulated at 40K under folders named

	{name}.c01?????? .

Parameter lookup uses exact floating-point equality against the registered
lists: callers must pass back the very values they registered.
*/
package mc

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Log is the logger of the package. Library users may redirect or silence
// it; by default it reports to stderr.
var Log = logrus.New()

// Index is the bidirectional mapping between a sweep parameter tuple and a
// configuration folder name. The temperature axis is mandatory; empty
// stress, strain or field axes are substituted by a single zero vector of
// the right dimension, so unregistered axes always resolve to index 0.
type Index struct {
	Name   string // base system name, common to the whole sweep
	Temp   []float64
	Stress [][]float64 // Voigt vectors, GPa
	Strain [][]float64 // Voigt vectors, fractional
	Field  [][]float64 // 3-vectors, V/m
}

// ConfID holds the per-axis 0-based indices of one configuration.
type ConfID struct {
	Temp, Stress, Strain, Field int
}

// String formats the identifier as it appears in folder names,
// e.g. "c01000000".
func (id ConfID) String() string {
	return fmt.Sprintf("c%02d%02d%02d%02d", id.Temp, id.Stress, id.Strain, id.Field)
}

// NewIndex registers the distinct parameter values of a sweep. At least one
// temperature is required; nil or empty vector axes default to a single
// zero vector.
func NewIndex(name string, temp []float64, stress, strain, field [][]float64) (*Index, error) {
	if len(temp) == 0 {
		return nil, Error{BadParameterList + ": at least one temperature is required", "", []string{"NewIndex"}, true}
	}
	var err error
	ix := &Index{Name: name, Temp: append([]float64{}, temp...)}
	if ix.Stress, err = axisOrDefault(stress, 6, "stress"); err != nil {
		return nil, err
	}
	if ix.Strain, err = axisOrDefault(strain, 6, "strain"); err != nil {
		return nil, err
	}
	if ix.Field, err = axisOrDefault(field, 3, "field"); err != nil {
		return nil, err
	}
	return ix, nil
}

func axisOrDefault(axis [][]float64, dim int, label string) ([][]float64, error) {
	if len(axis) == 0 {
		return [][]float64{make([]float64, dim)}, nil
	}
	out := make([][]float64, len(axis))
	for i, v := range axis {
		if len(v) != dim {
			return nil, Error{fmt.Sprintf("%s: %s vector %v must have %d components", BadParameterList, label, v, dim), "", []string{"axisOrDefault"}, true}
		}
		out[i] = append([]float64{}, v...)
	}
	return out, nil
}

// Resolve locates the given parameter tuple within the registered lists and
// returns its per-axis indices. Nil stress, strain or field stand for the
// zero vector of the corresponding axis. Matching is exact: a value that
// was never registered fails, even if it is arbitrarily close to one that
// was.
func (ix *Index) Resolve(t float64, stress, strain, field []float64) (ConfID, error) {
	var id ConfID
	id.Temp = -1
	for i, v := range ix.Temp {
		if v == t {
			id.Temp = i
			break
		}
	}
	if id.Temp < 0 {
		return id, Error{fmt.Sprintf("%s: temperature %v not in sweep", ConfNotSimulated, t), "", []string{"Resolve"}, true}
	}
	var err error
	if id.Stress, err = vectorIndex(ix.Stress, stress, 6, "stress"); err != nil {
		return id, err
	}
	if id.Strain, err = vectorIndex(ix.Strain, strain, 6, "strain"); err != nil {
		return id, err
	}
	if id.Field, err = vectorIndex(ix.Field, field, 3, "field"); err != nil {
		return id, err
	}
	return id, nil
}

func vectorIndex(axis [][]float64, v []float64, dim int, label string) (int, error) {
	if v == nil {
		v = make([]float64, dim)
	}
	for i, reg := range axis {
		if floats.Equal(reg, v) {
			return i, nil
		}
	}
	return -1, Error{fmt.Sprintf("%s: %s vector %v not in sweep", ConfNotSimulated, label, v), "", []string{"vectorIndex"}, true}
}

// FolderName resolves a parameter tuple to its configuration folder name,
// {name}.{confID}.
func (ix *Index) FolderName(t float64, stress, strain, field []float64) (string, error) {
	id, err := ix.Resolve(t, stress, strain, field)
	if err != nil {
		return "", errDecorate(err, "FolderName")
	}
	return ix.Name + "." + id.String(), nil
}

// SimName returns the base simulation name used for the files of one
// temperature point, {name}T{t}.
func (ix *Index) SimName(t float64) string {
	return fmt.Sprintf("%sT%d", ix.Name, int(t))
}
