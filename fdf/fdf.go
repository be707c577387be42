// Package fdf reads and writes the FDF input files that configure a
// SCALE-UP run: "key value" lines plus %block sections. It is the
// configuration contract between a sweep launcher and the simulator; the
// launcher rewrites a base FDF with the parameters of each configuration
// before handing it to whatever runs the binary.
//
// Keys are case-insensitive and normalized to lower case. Comments are
// dropped on read and not written back.
package fdf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type entry struct {
	key    string
	values []string   // scalar setting tokens; nil for blocks
	block  [][]string // block rows; nil for scalar settings
}

// File is an in-memory FDF file. Settings keep the order they were read or
// first set in.
type File struct {
	entries []*entry
	byKey   map[string]*entry
}

// New returns an empty FDF file.
func New() *File {
	return &File{byKey: make(map[string]*entry)}
}

// Read parses an FDF file.
func Read(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f := New()
	sc := bufio.NewScanner(fh)
	var block *entry
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		key := strings.ToLower(fields[0])
		switch {
		case key == "%block":
			if block != nil {
				return nil, fmt.Errorf("fdf: %s:%d: %%block inside %%block %s", path, line, block.key)
			}
			if len(fields) < 2 {
				return nil, fmt.Errorf("fdf: %s:%d: %%block without a name", path, line)
			}
			block = &entry{key: strings.ToLower(fields[1]), block: [][]string{}}
		case key == "%endblock":
			if block == nil {
				return nil, fmt.Errorf("fdf: %s:%d: %%endblock without %%block", path, line)
			}
			f.put(block)
			block = nil
		case block != nil:
			block.block = append(block.block, fields)
		default:
			f.put(&entry{key: key, values: fields[1:]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if block != nil {
		return nil, fmt.Errorf("fdf: %s: unterminated %%block %s", path, block.key)
	}
	return f, nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}

func (f *File) put(e *entry) {
	if old, ok := f.byKey[e.key]; ok {
		*old = *e
		return
	}
	f.entries = append(f.entries, e)
	f.byKey[e.key] = e
}

// Get returns the value tokens of a scalar setting.
func (f *File) Get(key string) ([]string, bool) {
	e, ok := f.byKey[strings.ToLower(key)]
	if !ok || e.values == nil {
		return nil, false
	}
	return e.values, true
}

// GetInt returns a scalar setting interpreted as a single integer.
func (f *File) GetInt(key string) (int, error) {
	v, ok := f.Get(key)
	if !ok || len(v) == 0 {
		return 0, fmt.Errorf("fdf: no setting %s", key)
	}
	return strconv.Atoi(v[0])
}

// GetFloat returns a scalar setting interpreted as a single real.
func (f *File) GetFloat(key string) (float64, error) {
	v, ok := f.Get(key)
	if !ok || len(v) == 0 {
		return 0, fmt.Errorf("fdf: no setting %s", key)
	}
	return strconv.ParseFloat(v[0], 64)
}

// Set stores a scalar setting, replacing any previous value or block under
// the key.
func (f *File) Set(key string, values ...string) {
	f.put(&entry{key: strings.ToLower(key), values: values})
}

// SetInt stores a single-integer setting.
func (f *File) SetInt(key string, v int) { f.Set(key, strconv.Itoa(v)) }

// SetFloat stores a single-real setting.
func (f *File) SetFloat(key string, v float64) { f.Set(key, strconv.FormatFloat(v, 'G', -1, 64)) }

// SetReals stores a setting with one token per real value, in the fixed
// notation the simulator expects.
func (f *File) SetReals(key string, vals []float64) {
	tokens := make([]string, len(vals))
	for i, v := range vals {
		tokens[i] = fmt.Sprintf("%.8E", v)
	}
	f.Set(key, tokens...)
}

// Block returns the rows of a block setting.
func (f *File) Block(key string) ([][]string, bool) {
	e, ok := f.byKey[strings.ToLower(key)]
	if !ok || e.block == nil {
		return nil, false
	}
	return e.block, true
}

// SetBlock stores a block setting, replacing any previous value or block
// under the key.
func (f *File) SetBlock(key string, rows [][]string) {
	f.put(&entry{key: strings.ToLower(key), block: rows})
}

// Write serializes the file to the given path, overwriting it.
func (f *File) Write(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	w := bufio.NewWriter(fh)
	for _, e := range f.entries {
		if e.block != nil {
			fmt.Fprintf(w, "%%block %s\n", e.key)
			for _, row := range e.block {
				fmt.Fprintf(w, "%s\n", strings.Join(row, " "))
			}
			fmt.Fprintf(w, "%%endblock %s\n", e.key)
			continue
		}
		if len(e.values) == 0 {
			fmt.Fprintf(w, "%s\n", e.key)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", e.key, strings.Join(e.values, " "))
	}
	return w.Flush()
}
