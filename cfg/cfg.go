// Package cfg holds the user-facing settings of a sweep run. Earlier
// versions kept these in process-wide mutable globals; every consumer now
// receives an explicit Settings value instead.
package cfg

import (
	"bufio"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings are the knobs of a Monte Carlo sweep that are not sweep
// parameters themselves. It can be instanced through New or by hand; if
// instanced by hand, use the Check method to verify it meets the
// requirements.
type Settings struct {
	// ScupExec is the path of the SCALE-UP executable handed to the
	// runner. Empty is fine for analysis-only use.
	ScupExec string `yaml:"scup_exec"`

	// MCSteps is the total number of Monte Carlo sweeps per
	// configuration.
	MCSteps int `yaml:"mc_steps"`

	// MCStepInterval is the number of MC steps between partial restart
	// snapshots.
	MCStepInterval int `yaml:"mc_step_interval"`

	// MCEquilibrationSteps is the number of initial MC steps discarded
	// from equilibrium averaging.
	MCEquilibrationSteps int `yaml:"mc_equilibration_steps"`

	// MCMaxJump is the maximum MC displacement jump, in Bohr. Zero keeps
	// the simulator default.
	MCMaxJump float64 `yaml:"mc_max_jump"`

	// LatticeOutputInterval is the number of MC steps between lattice
	// output prints. Zero keeps the simulator default.
	LatticeOutputInterval int `yaml:"lattice_output_interval"`

	// FixedStrainComponents marks the Voigt strain components the
	// simulator must keep fixed. Either empty or exactly six values.
	FixedStrainComponents []bool `yaml:"fixed_strain_components"`
}

// New opens and decodes the given YAML settings file, then checks it.
func New(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var s Settings
	if err := yaml.NewDecoder(bufio.NewReader(f)).Decode(&s); err != nil {
		return nil, err
	}
	if err := s.Check(); err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}
	return &s, nil
}

// Check returns an error if a field doesn't meet the requirements.
func (s *Settings) Check() error {
	if s.MCSteps <= 0 {
		return fmt.Errorf("mc_steps must be greater than 0")
	}
	if s.MCStepInterval <= 0 || s.MCStepInterval > s.MCSteps {
		return fmt.Errorf("mc_step_interval must be between 1 and mc_steps")
	}
	if s.MCEquilibrationSteps < 0 || s.MCEquilibrationSteps >= s.MCSteps {
		return fmt.Errorf("mc_equilibration_steps must be between 0 and mc_steps-1")
	}
	if s.MCMaxJump < 0 {
		return fmt.Errorf("mc_max_jump cannot be negative")
	}
	if s.LatticeOutputInterval < 0 {
		return fmt.Errorf("lattice_output_interval cannot be negative")
	}
	if len(s.FixedStrainComponents) != 0 && len(s.FixedStrainComponents) != 6 {
		return fmt.Errorf("fixed_strain_components needs 6 values, got %d", len(s.FixedStrainComponents))
	}
	return nil
}
