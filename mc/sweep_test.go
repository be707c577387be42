package mc

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	ix, err := NewIndex("sim", []float64{20, 40, 60}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	id, err := ix.Resolve(40, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if id != (ConfID{Temp: 1}) {
		t.Errorf("resolved %+v, want temp index 1 and zeros", id)
	}
	if id.String() != "c01000000" {
		t.Errorf("identifier %s, want c01000000", id.String())
	}
	folder, err := ix.FolderName(40, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if folder != "sim.c01000000" {
		t.Errorf("folder %s, want sim.c01000000", folder)
	}
	if ix.SimName(40) != "simT40" {
		t.Errorf("sim name %s, want simT40", ix.SimName(40))
	}
}

func TestResolveUnknown(t *testing.T) {
	ix, err := NewIndex("sim", []float64{20, 40, 60}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ix.Resolve(30, nil, nil, nil)
	if err == nil {
		t.Fatal("resolved a temperature that was never registered")
	}
	if merr, ok := err.(Error); !ok || !strings.HasPrefix(merr.Message(), ConfNotSimulated) {
		t.Errorf("got error '%v', want a %s one", err, ConfNotSimulated)
	}
}

func TestResolveVectorAxes(t *testing.T) {
	stress := [][]float64{{0, 0, 0, 0, 0, 0}, {1, 1, 1, 0, 0, 0}}
	field := [][]float64{{0, 0, 0.5}}
	ix, err := NewIndex("sim", []float64{20}, stress, nil, field)
	if err != nil {
		t.Fatal(err)
	}
	id, err := ix.Resolve(20, []float64{1, 1, 1, 0, 0, 0}, nil, []float64{0, 0, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if id.Stress != 1 || id.Field != 0 {
		t.Errorf("resolved %+v, want stress 1 and field 0", id)
	}
	// matching is exact, not approximate
	if _, err := ix.Resolve(20, []float64{1, 1, 1.0000001, 0, 0, 0}, nil, []float64{0, 0, 0.5}); err == nil {
		t.Error("resolved a stress vector close to, but not equal to, a registered one")
	}
	// nil stands for the zero vector, which this sweep registered
	if id, err := ix.Resolve(20, nil, nil, []float64{0, 0, 0.5}); err != nil || id.Stress != 0 {
		t.Errorf("nil stress resolved to (%+v, %v), want index 0", id, err)
	}
}

func TestNewIndexValidation(t *testing.T) {
	if _, err := NewIndex("sim", nil, nil, nil, nil); err == nil {
		t.Error("built an index without temperatures")
	}
	if _, err := NewIndex("sim", []float64{20}, [][]float64{{1, 2}}, nil, nil); err == nil {
		t.Error("accepted a 2-component stress vector")
	}
	if _, err := NewIndex("sim", []float64{20}, nil, nil, [][]float64{{1, 2, 3, 4}}); err == nil {
		t.Error("accepted a 4-component field vector")
	}
}

func TestSetupRoundTrip(t *testing.T) {
	s := &Setup{
		Name:      "sim",
		Supercell: [3]int{4, 4, 4},
		Elements:  []string{"Sr", "Ti", "O"},
		Nats:      5,
		Temp:      []float64{20, 40},
		Stress:    [][]float64{{0, 0, 0, 0, 0, 0}},
		Strain:    [][]float64{{0, 0, 0, 0, 0, 0}},
		Field:     [][]float64{{0, 0, 0}},
	}
	path := filepath.Join(t.TempDir(), SetupFile)
	if err := s.Write(path); err != nil {
		t.Fatal(err)
	}
	r, err := ReadSetup(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(r, s) {
		t.Errorf("read back %+v, want %+v", r, s)
	}
	if _, err := r.Index(); err != nil {
		t.Errorf("record does not build an index: %v", err)
	}
}
