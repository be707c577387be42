package mc

import (
	"bufio"
	"encoding/json"
	"os"
)

// SetupFile is the name of the sweep metadata record, stored at the root of
// the sweep output folder when the sweep is launched.
const SetupFile = "simulation.info"

// Setup is the persisted description of one parameter sweep: the lattice
// topology shared by every configuration plus the registered parameter
// lists. It is written once at launch time and read back at analysis time.
type Setup struct {
	Name      string      `json:"name"`
	Supercell [3]int      `json:"supercell"`
	Elements  []string    `json:"elements"`
	Nats      int         `json:"nats"`
	Temp      []float64   `json:"temp"`
	Stress    [][]float64 `json:"stress"`
	Strain    [][]float64 `json:"strain"`
	Field     [][]float64 `json:"field"`
}

// Index builds the sweep index described by the record.
func (s *Setup) Index() (*Index, error) {
	ix, err := NewIndex(s.Name, s.Temp, s.Stress, s.Strain, s.Field)
	if err != nil {
		return nil, errDecorate(err, "Setup.Index")
	}
	return ix, nil
}

// Write serializes the record to the given path. The file is overwritten if
// it exists.
func (s *Setup) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return err
	}
	return w.Flush()
}

// ReadSetup reads a sweep metadata record back from the given path.
func ReadSetup(path string) (*Setup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var s Setup
	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}
