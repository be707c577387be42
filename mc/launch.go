package mc

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// RunSpec describes one configuration of a sweep to whatever runs the
// simulator: where its output belongs and which parameters it carries.
type RunSpec struct {
	ID      ConfID
	Folder  string // configuration folder, already created
	SimName string // base name for every file of this run

	Temp   float64
	Stress []float64
	Strain []float64
	Field  []float64
}

// Runner executes one configuration. Launch calls it once per point of the
// parameter grid; a non-nil error aborts the sweep. Driving the actual
// simulator binary is the caller's business.
type Runner func(RunSpec) error

// Sweep launches a full parameter sweep: it creates the output folder tree,
// enumerates every combination of the registered parameters in temperature,
// stress, strain, field nesting order, hands each one to the Runner, and
// records the sweep metadata for later analysis.
type Sweep struct {
	Setup
	// OutputDir is the sweep output folder to create and populate.
	OutputDir string
	// Overwrite discards a preexisting output folder instead of skipping
	// the launch.
	Overwrite bool
}

// Launch runs the sweep. With a preexisting output folder it either wipes
// it (Overwrite) or returns without doing anything, as rerunning a finished
// sweep is usually an accident.
func (sw *Sweep) Launch(run Runner) error {
	ix, err := sw.Setup.Index()
	if err != nil {
		return errDecorate(err, "Launch")
	}
	if _, err := os.Stat(sw.OutputDir); err == nil {
		if !sw.Overwrite {
			Log.WithField("output", sw.OutputDir).Info("output folder exists, skipping sweep")
			return nil
		}
		Log.WithField("output", sw.OutputDir).Info("output folder exists, overwriting")
		if err := os.RemoveAll(sw.OutputDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(sw.OutputDir, 0755); err != nil {
		return err
	}
	// The normalized axes go into the metadata record, so analysis sees
	// the implicit zero vectors of unset axes.
	sw.Setup.Temp = ix.Temp
	sw.Setup.Stress = ix.Stress
	sw.Setup.Strain = ix.Strain
	sw.Setup.Field = ix.Field

	nsims := len(ix.Temp) * len(ix.Stress) * len(ix.Strain) * len(ix.Field)
	count := 0
	for it, t := range ix.Temp {
		for ip, p := range ix.Stress {
			for is, s := range ix.Strain {
				for ifl, f := range ix.Field {
					count++
					id := ConfID{Temp: it, Stress: ip, Strain: is, Field: ifl}
					folder := filepath.Join(sw.OutputDir, ix.Name+"."+id.String())
					if err := os.MkdirAll(folder, 0755); err != nil {
						return err
					}
					Log.WithFields(logrus.Fields{
						"conf":   id.String(),
						"n":      count,
						"of":     nsims,
						"temp":   t,
						"stress": p,
						"strain": s,
						"field":  f,
					}).Info("launching configuration")
					if run != nil {
						spec := RunSpec{
							ID:      id,
							Folder:  folder,
							SimName: ix.SimName(t),
							Temp:    t,
							Stress:  p,
							Strain:  s,
							Field:   f,
						}
						if err := run(spec); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	return sw.Setup.Write(filepath.Join(sw.OutputDir, SetupFile))
}
