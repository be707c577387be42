package mc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	scup "github.com/rcote98/ezSCUP"
)

// Filename conventions of a configuration folder.
const (
	// RefSuffix follows the base simulation name in the reference
	// geometry file.
	RefSuffix = "_FINAL.REF"
	// PartialMarker separates the base simulation name from the step
	// number in partial restart snapshots.
	PartialMarker = "_partial."
	// RestartSuffix ends every restart snapshot, optionally followed by a
	// compression suffix.
	RestartSuffix = ".restart"
	// OutSuffix follows the base simulation name in the output file.
	OutSuffix = ".out"
)

// Loader reads configuration folders back into equilibrium geometries. It
// replaces the process-wide settings of earlier versions: every loader owns
// its output directory and equilibration step count explicitly.
type Loader struct {
	// OutputDir is the sweep output folder holding the configuration
	// subfolders.
	OutputDir string
	// EquilibrationSteps is the number of initial MC steps discarded from
	// averaging. When a simulation turns out shorter than this, the
	// threshold drops to 20% of its total steps instead of discarding
	// every sample.
	EquilibrationSteps int
}

// NewLoader returns a Loader over the given sweep output folder.
func NewLoader(outputDir string, equilibrationSteps int) *Loader {
	return &Loader{OutputDir: outputDir, EquilibrationSteps: equilibrationSteps}
}

// Configuration holds everything loaded from one configuration folder: the
// equilibrium geometry averaged over the selected partial snapshots, plus
// the selection metadata.
type Configuration struct {
	Name       string // base simulation name within the folder
	FolderName string
	FolderPath string

	Partials      []string // selected snapshots, full paths, sorted
	TotalSteps    int      // MC steps of the whole simulation
	StepThreshold int      // effective equilibration threshold
	Nmeas         int      // number of snapshots averaged

	Geo *scup.Geometry
}

// snapshotStep extracts the embedded step number of a partial snapshot
// filename, {base}_partial.{step}.restart[.gz|.zst]. The second return is
// false for filenames that do not follow the convention for this base name.
func snapshotStep(name, base string) (int, bool, error) {
	s := strings.TrimSuffix(strings.TrimSuffix(name, ".gz"), ".zst")
	if !strings.HasPrefix(s, base+PartialMarker) || !strings.HasSuffix(s, RestartSuffix) {
		return 0, false, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, base+PartialMarker), RestartSuffix)
	step, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, Error{fmt.Sprintf("%s '%s'", BadPartialName, name), name, []string{"snapshotStep"}, true}
	}
	return step, true, nil
}

// SelectSnapshots lists the partial restart snapshots of a configuration
// folder and picks the subset past the equilibration threshold. It returns
// the selected filenames sorted, the total step count of the simulation and
// the effective threshold used.
//
// A threshold at or above the total step count would select nothing, so it
// is lowered to 20% of the total steps; the degradation is reported through
// Log rather than failing the selection.
func SelectSnapshots(folder, base string, threshold int) ([]string, int, int, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, 0, threshold, err
	}
	names := []string{}
	steps := []int{}
	total := 0
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), "partial") {
			continue
		}
		step, ok, err := snapshotStep(e.Name(), base)
		if err != nil {
			return nil, 0, threshold, errDecorate(err, "SelectSnapshots")
		}
		if !ok {
			continue
		}
		names = append(names, e.Name())
		steps = append(steps, step)
		if step > total {
			total = step
		}
	}
	effective := threshold
	if len(names) > 0 && threshold >= total {
		effective = int(0.2 * float64(total))
		Log.WithFields(logrus.Fields{
			"folder":    folder,
			"threshold": threshold,
			"total":     total,
			"effective": effective,
		}).Warn("equilibration threshold at or above total MC steps, lowering to 20% of total")
	}
	selected := []string{}
	for i, n := range names {
		if steps[i] > effective {
			selected = append(selected, n)
		}
	}
	sort.Strings(selected)
	return selected, total, effective, nil
}

// Load reads one configuration folder: the reference geometry for the
// topology and positions, then the equilibrium average of every selected
// partial snapshot. It fails if no snapshot survives the equilibration
// filter.
func (l *Loader) Load(folderName, baseSimName string) (*Configuration, error) {
	folder := filepath.Join(l.OutputDir, folderName)
	geo, err := scup.ReadReference(filepath.Join(folder, baseSimName+RefSuffix))
	if err != nil {
		return nil, errDecorate(err, "Load")
	}
	selected, total, effective, err := SelectSnapshots(folder, baseSimName, l.EquilibrationSteps)
	if err != nil {
		return nil, errDecorate(err, "Load")
	}
	if len(selected) == 0 {
		return nil, Error{NotEnoughPartials, folder, []string{"Load"}, true}
	}
	paths := make([]string, len(selected))
	for i, n := range selected {
		paths[i] = filepath.Join(folder, n)
	}
	if err := geo.LoadEquilibrium(paths); err != nil {
		return nil, errDecorate(err, "Load")
	}
	return &Configuration{
		Name:          baseSimName,
		FolderName:    folderName,
		FolderPath:    folder,
		Partials:      paths,
		TotalSteps:    total,
		StepThreshold: effective,
		Nmeas:         len(paths),
		Geo:           geo,
	}, nil
}

// Access resolves a parameter tuple through the sweep index and loads its
// configuration folder.
func (l *Loader) Access(ix *Index, t float64, stress, strain, field []float64) (*Configuration, error) {
	folder, err := ix.FolderName(t, stress, strain, field)
	if err != nil {
		return nil, errDecorate(err, "Access")
	}
	c, err := l.Load(folder, ix.SimName(t))
	if err != nil {
		return nil, errDecorate(err, "Access")
	}
	return c, nil
}

// LatticeOutput reads the lattice time series of the configuration's output
// file, keeping only the samples past the equilibration threshold.
func (c *Configuration) LatticeOutput() (*scup.LatticeData, error) {
	d, err := scup.ReadLatticeOut(filepath.Join(c.FolderPath, c.Name+OutSuffix))
	if err != nil {
		return nil, errDecorate(err, "LatticeOutput")
	}
	return d.After(c.StepThreshold), nil
}
