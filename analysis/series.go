package analysis

import (
	"gonum.org/v1/gonum/stat"

	scup "github.com/rcote98/ezSCUP"
)

// ColumnStats returns the mean and standard deviation of one column of a
// lattice output time series. Callers usually filter the series past the
// equilibration threshold first (LatticeData.After or
// Configuration.LatticeOutput).
func ColumnStats(d *scup.LatticeData, column string) (mean, std float64, err error) {
	vals, err := d.Column(column)
	if err != nil {
		return 0, 0, err
	}
	return stat.Mean(vals, nil), stat.StdDev(vals, nil), nil
}
