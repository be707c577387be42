package scup

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LatticeData holds the lattice section of a SCALE-UP output file as a
// multi-column time series keyed by Monte Carlo step. The step column is
// split off into Steps; Columns names the remaining columns, matching the
// inner slices of Rows.
type LatticeData struct {
	Columns []string
	Steps   []int
	Rows    [][]float64
}

// Len returns the number of sampled steps.
func (d *LatticeData) Len() int { return len(d.Steps) }

// Column returns the values of the named column across all steps.
func (d *LatticeData) Column(name string) ([]float64, error) {
	for i, c := range d.Columns {
		if c != name {
			continue
		}
		vals := make([]float64, len(d.Rows))
		for k, row := range d.Rows {
			vals[k] = row[i]
		}
		return vals, nil
	}
	return nil, fmt.Errorf("scup: no column '%s' in lattice output %v", name, d.Columns)
}

// After returns the subset of the series with step number greater or equal
// to the given one. The returned value shares the backing rows with the
// receiver.
func (d *LatticeData) After(step int) *LatticeData {
	out := &LatticeData{Columns: d.Columns}
	for i, s := range d.Steps {
		if s >= step {
			out.Steps = append(out.Steps, s)
			out.Rows = append(out.Rows, d.Rows[i])
		}
	}
	return out
}

// ReadLatticeOut parses the lattice time series out of a SCALE-UP output
// file. Lattice lines are tagged "LT:"; the first one names the columns
// (leading column is the MC step), the rest carry one sample each. Untagged
// lines are ignored.
func ReadLatticeOut(name string) (*LatticeData, error) {
	r, closer, err := openGeometry(name)
	if err != nil {
		return nil, errDecorate(err, "ReadLatticeOut")
	}
	defer closer()
	data := new(LatticeData)
	for {
		line, err := r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				break
			}
			return nil, CError{WrongFormat + ": " + err.Error(), name, []string{"ReadLatticeOut"}, true}
		}
		fields := splitTagged(line)
		if fields != nil {
			if err := data.addLine(fields, name); err != nil {
				return nil, errDecorate(err, "ReadLatticeOut")
			}
		}
		if err == io.EOF {
			break
		}
	}
	return data, nil
}

// splitTagged returns the whitespace-separated fields following the "LT:"
// tag, or nil for untagged lines.
func splitTagged(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "LT:" {
		return nil
	}
	return fields[1:]
}

func (d *LatticeData) addLine(fields []string, name string) error {
	if len(fields) == 0 {
		return nil
	}
	if d.Columns == nil {
		if _, err := strconv.ParseFloat(fields[0], 64); err == nil {
			return CError{WrongFormat + ": lattice data before column header", name, []string{"addLine"}, true}
		}
		d.Columns = fields[1:]
		return nil
	}
	if len(fields) != len(d.Columns)+1 {
		return CError{fmt.Sprintf("%s: lattice row with %d fields, %d expected", WrongFormat, len(fields), len(d.Columns)+1), name, []string{"addLine"}, true}
	}
	step, err := strconv.Atoi(fields[0])
	if err != nil {
		return CError{fmt.Sprintf("%s: can't parse MC step '%s'", WrongFormat, fields[0]), name, []string{"addLine"}, true}
	}
	row := make([]float64, len(d.Columns))
	if err := parseReals(fields[1:], row, name); err != nil {
		return err
	}
	d.Steps = append(d.Steps, step)
	d.Rows = append(d.Rows, row)
	return nil
}
