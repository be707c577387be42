package fdf

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleFDF = `# SrTiO3 Monte Carlo run
System_name srtio3
MC_strains T       # sample strains too
mc_nsweeps 1000
mc_temperature 40.0 kelvin

%block Supercell
4 4 4
%endblock Supercell
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.fdf")
	if err := os.WriteFile(path, []byte(sampleFDF), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead(t *testing.T) {
	f, err := Read(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	// keys are case-insensitive and comments are stripped
	if v, ok := f.Get("system_NAME"); !ok || v[0] != "srtio3" {
		t.Errorf("system_name: got (%v, %v)", v, ok)
	}
	if v, ok := f.Get("mc_strains"); !ok || len(v) != 1 || v[0] != "T" {
		t.Errorf("mc_strains: got (%v, %v), comment not stripped?", v, ok)
	}
	if n, err := f.GetInt("mc_nsweeps"); err != nil || n != 1000 {
		t.Errorf("mc_nsweeps: got (%d, %v)", n, err)
	}
	if temp, err := f.GetFloat("mc_temperature"); err != nil || temp != 40.0 {
		t.Errorf("mc_temperature: got (%v, %v)", temp, err)
	}
	rows, ok := f.Block("supercell")
	if !ok || len(rows) != 1 || len(rows[0]) != 3 || rows[0][2] != "4" {
		t.Errorf("supercell block: got (%v, %v)", rows, ok)
	}
	if _, ok := f.Get("supercell"); ok {
		t.Error("block key answered as a scalar setting")
	}
	if _, err := f.GetInt("missing_key"); err == nil {
		t.Error("got a value for a key not in the file")
	}
}

func TestRoundTrip(t *testing.T) {
	f, err := Read(writeSample(t))
	if err != nil {
		t.Fatal(err)
	}
	f.SetFloat("mc_temperature", 60)
	f.SetInt("mc_nsweeps", 2000)
	f.SetReals("external_stress", []float64{1, 1, 1, 0, 0, 0})
	f.SetBlock("supercell", [][]string{{"6", "6", "6"}})
	path := filepath.Join(t.TempDir(), "out.fdf")
	if err := f.Write(path); err != nil {
		t.Fatal(err)
	}
	r, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if temp, err := r.GetFloat("mc_temperature"); err != nil || temp != 60 {
		t.Errorf("mc_temperature after round trip: (%v, %v)", temp, err)
	}
	if n, err := r.GetInt("mc_nsweeps"); err != nil || n != 2000 {
		t.Errorf("mc_nsweeps after round trip: (%d, %v)", n, err)
	}
	if v, ok := r.Get("external_stress"); !ok || len(v) != 6 || v[0] != "1.00000000E+00" {
		t.Errorf("external_stress after round trip: (%v, %v)", v, ok)
	}
	if rows, ok := r.Block("supercell"); !ok || rows[0][0] != "6" {
		t.Errorf("supercell after round trip: (%v, %v)", rows, ok)
	}
}

func TestReadMalformed(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"nested.fdf":       "%block a\n%block b\n%endblock b\n%endblock a\n",
		"unterminated.fdf": "%block a\n1 2 3\n",
		"stray.fdf":        "%endblock a\n",
		"nameless.fdf":     "%block\n%endblock\n",
	}
	for file, content := range cases {
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Read(path); err == nil {
			t.Errorf("%s: parsed a malformed file", file)
		}
	}
}
