package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Band is one risk category covering values up to and including Max.
type Band struct {
	Label string
	Max   float64
}

// Thresholds is a validated, ordered risk band table. Bands partition the
// value range with no gaps or overlaps: a value v maps to the first band
// with v ≤ Max, or to the terminal label when it exceeds every bound.
type Thresholds struct {
	bands    []Band
	terminal string
}

// NewThresholds builds a threshold table from ordered bands and the label
// for values above the last bound. It rejects empty or duplicate labels
// and bounds that are not strictly increasing, so a malformed table fails
// at configuration time rather than misclassifying per record.
func NewThresholds(bands []Band, terminal string) (*Thresholds, error) {
	if len(bands) == 0 {
		return nil, errors.New("thresholds: at least one band is required")
	}
	if terminal == "" {
		return nil, errors.New("thresholds: terminal label is required")
	}
	seen := map[string]bool{terminal: true}
	for i, b := range bands {
		if b.Label == "" {
			return nil, fmt.Errorf("thresholds: band %d has an empty label", i)
		}
		if seen[b.Label] {
			return nil, fmt.Errorf("thresholds: duplicate label %q", b.Label)
		}
		seen[b.Label] = true
		if i > 0 && b.Max <= bands[i-1].Max {
			return nil, fmt.Errorf("thresholds: bounds must be strictly increasing, got %g after %g",
				b.Max, bands[i-1].Max)
		}
	}
	return &Thresholds{bands: append([]Band(nil), bands...), terminal: terminal}, nil
}

// ParseThresholds parses a table of the form
// "label:bound,label:bound,...,terminalLabel", e.g.
// "extreme:0,high:4,moderate:10,low".
func ParseThresholds(s string) (*Thresholds, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, fmt.Errorf("thresholds: need at least one band and a terminal label, got %q", s)
	}
	bands := make([]Band, 0, len(parts)-1)
	for _, p := range parts[:len(parts)-1] {
		label, bound, ok := strings.Cut(strings.TrimSpace(p), ":")
		if !ok {
			return nil, fmt.Errorf("thresholds: band %q is not label:bound", p)
		}
		v, err := strconv.ParseFloat(bound, 64)
		if err != nil {
			return nil, fmt.Errorf("thresholds: band %q has invalid bound: %w", p, err)
		}
		bands = append(bands, Band{Label: strings.TrimSpace(label), Max: v})
	}
	terminal := strings.TrimSpace(parts[len(parts)-1])
	if strings.Contains(terminal, ":") {
		return nil, fmt.Errorf("thresholds: last entry %q must be a bare terminal label", terminal)
	}
	return NewThresholds(bands, terminal)
}

// Classify maps a finite value to exactly one category label.
func (t *Thresholds) Classify(v float64) string {
	for _, b := range t.bands {
		if v <= b.Max {
			return b.Label
		}
	}
	return t.terminal
}

// Labels returns all category labels from coldest to warmest.
func (t *Thresholds) Labels() []string {
	out := make([]string, 0, len(t.bands)+1)
	for _, b := range t.bands {
		out = append(out, b.Label)
	}
	return append(out, t.terminal)
}
