package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Histogram bins per-cell quantities (displacements, rotation angles,
// polarization samples) over a fixed set of dividers. A value lands in bin i
// when dividers[i] <= value < dividers[i+1]; values outside the range are
// counted separately as outliers.
type Histogram struct {
	dividers []float64
	counts   []int
	outliers int
}

// NewHistogram returns an empty histogram over the given bin dividers,
// which must be at least 2 strictly increasing values.
func NewHistogram(dividers []float64) (*Histogram, error) {
	if len(dividers) < 2 {
		return nil, fmt.Errorf("analysis: histogram needs at least 2 dividers, got %d", len(dividers))
	}
	if !sort.Float64sAreSorted(dividers) {
		return nil, fmt.Errorf("analysis: histogram dividers %v not sorted", dividers)
	}
	for i := 1; i < len(dividers); i++ {
		if dividers[i] == dividers[i-1] {
			return nil, fmt.Errorf("analysis: repeated histogram divider %v", dividers[i])
		}
	}
	return &Histogram{
		dividers: append([]float64{}, dividers...),
		counts:   make([]int, len(dividers)-1),
	}, nil
}

// Add bins the given values.
func (h *Histogram) Add(values ...float64) {
	last := len(h.dividers) - 1
	for _, v := range values {
		if v < h.dividers[0] || v >= h.dividers[last] {
			h.outliers++
			continue
		}
		// SearchFloat64s returns the insertion point, so the bin is one
		// less except exactly on a divider
		i := sort.SearchFloat64s(h.dividers, v)
		if h.dividers[i] == v {
			h.counts[i]++
		} else {
			h.counts[i-1]++
		}
	}
}

// Counts returns a copy of the per-bin counts.
func (h *Histogram) Counts() []int { return append([]int{}, h.counts...) }

// Outliers returns how many added values fell outside the divider range.
func (h *Histogram) Outliers() int { return h.outliers }

// Dividers returns a copy of the bin dividers.
func (h *Histogram) Dividers() []float64 { return append([]float64{}, h.dividers...) }

// Frequencies returns the per-bin fraction of all binned values, or nil for
// an empty histogram.
func (h *Histogram) Frequencies() []float64 {
	total := 0
	for _, c := range h.counts {
		total += c
	}
	if total == 0 {
		return nil
	}
	freq := make([]float64, len(h.counts))
	for i, c := range h.counts {
		freq[i] = float64(c) / float64(total)
	}
	return freq
}

type histogramJSON struct {
	Dividers []float64 `json:"dividers"`
	Counts   []int     `json:"counts"`
	Outliers int       `json:"outliers"`
}

// MarshalJSON serializes dividers, counts and outliers.
func (h *Histogram) MarshalJSON() ([]byte, error) {
	return json.Marshal(histogramJSON{h.dividers, h.counts, h.outliers})
}

// UnmarshalJSON rebuilds a histogram serialized by MarshalJSON.
func (h *Histogram) UnmarshalJSON(data []byte) error {
	var j histogramJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	n, err := NewHistogram(j.Dividers)
	if err != nil {
		return err
	}
	if len(j.Counts) != len(n.counts) {
		return fmt.Errorf("analysis: histogram with %d counts for %d bins", len(j.Counts), len(n.counts))
	}
	n.counts = j.Counts
	n.outliers = j.Outliers
	*h = *n
	return nil
}
