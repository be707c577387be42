// Command scupeq loads one configuration of a finished sweep and prints its
// equilibrium strains and averaging metadata.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"path/filepath"

	"github.com/rcote98/ezSCUP/cfg"
	"github.com/rcote98/ezSCUP/mc"
)

func main() {
	out := flag.String("out", "output", "sweep output folder")
	settings := flag.String("settings", "", "YAML settings file, for the equilibration step count")
	temp := flag.Float64("temp", math.NaN(), "temperature of the configuration to load, in K")
	flag.Parse()

	if math.IsNaN(*temp) {
		log.Fatal("a temperature must be given through -temp")
	}

	eq := 0
	if *settings != "" {
		s, err := cfg.New(*settings)
		if err != nil {
			log.Fatal(fmt.Errorf("reading settings: %w", err))
		}
		eq = s.MCEquilibrationSteps
	}

	setup, err := mc.ReadSetup(filepath.Join(*out, mc.SetupFile))
	if err != nil {
		log.Fatal(fmt.Errorf("reading sweep metadata: %w", err))
	}
	ix, err := setup.Index()
	if err != nil {
		log.Fatal(err)
	}

	c, err := mc.NewLoader(*out, eq).Access(ix, *temp, nil, nil, nil)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Configuration:", c.FolderName)
	fmt.Println("Total MC steps:", c.TotalSteps)
	fmt.Println("Equilibration threshold:", c.StepThreshold)
	fmt.Println("Snapshots averaged:", c.Nmeas)
	fmt.Println("Supercell:", c.Geo.Supercell)
	fmt.Println("Lattice constants (Bohr):", c.Geo.LatConstants)
	fmt.Printf("Average strains (Voigt): %.6E\n", c.Geo.Strains)
}
