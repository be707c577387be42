package cfg

import (
	"os"
	"path/filepath"
	"testing"
)

const settingsYAML = `scup_exec: /opt/scaleup/bin/scaleup.x
mc_steps: 1000
mc_step_interval: 20
mc_equilibration_steps: 500
mc_max_jump: 0.5
lattice_output_interval: 50
fixed_strain_components: [false, false, false, true, true, true]
`

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(settingsYAML), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.MCSteps != 1000 || s.MCStepInterval != 20 || s.MCEquilibrationSteps != 500 {
		t.Errorf("MC settings %d/%d/%d, want 1000/20/500", s.MCSteps, s.MCStepInterval, s.MCEquilibrationSteps)
	}
	if s.MCMaxJump != 0.5 || s.LatticeOutputInterval != 50 {
		t.Errorf("got max jump %v and output interval %d", s.MCMaxJump, s.LatticeOutputInterval)
	}
	if len(s.FixedStrainComponents) != 6 || !s.FixedStrainComponents[3] {
		t.Errorf("fixed strain components %v", s.FixedStrainComponents)
	}
	if s.ScupExec != "/opt/scaleup/bin/scaleup.x" {
		t.Errorf("executable path %s", s.ScupExec)
	}
}

func TestCheck(t *testing.T) {
	good := Settings{MCSteps: 1000, MCStepInterval: 20, MCEquilibrationSteps: 500}
	if err := good.Check(); err != nil {
		t.Errorf("valid settings rejected: %v", err)
	}
	bad := []Settings{
		{MCSteps: 0, MCStepInterval: 20},
		{MCSteps: 100, MCStepInterval: 0},
		{MCSteps: 100, MCStepInterval: 200},
		{MCSteps: 100, MCStepInterval: 20, MCEquilibrationSteps: 100},
		{MCSteps: 100, MCStepInterval: 20, MCMaxJump: -1},
		{MCSteps: 100, MCStepInterval: 20, LatticeOutputInterval: -1},
		{MCSteps: 100, MCStepInterval: 20, FixedStrainComponents: []bool{true, false}},
	}
	for i, s := range bad {
		if err := s.Check(); err == nil {
			t.Errorf("case %d: invalid settings %+v passed the check", i, s)
		}
	}
}
