// Package heuristic defines the similarity signals and configuration options
// used to order a greedy best-first frontier.
package heuristic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultK is the numerator of the cost formula K / hits².
const DefaultK = 1000.0

// Sentinel errors for heuristic configuration.
var (
	// ErrUnknownKind is returned when a heuristic name cannot be parsed.
	ErrUnknownKind = errors.New("heuristic: unknown heuristic")

	// ErrBadK is returned when K is not strictly positive.
	ErrBadK = errors.New("heuristic: K must be positive")
)

// Kind names one similarity signal.
type Kind int

const (
	// Hamming compares titles position by position.
	Hamming Kind = iota

	// LongestCommonSubstring measures the longest shared contiguous run.
	LongestCommonSubstring

	// CategoryOverlap counts categories shared with the target.
	CategoryOverlap
)

var kindNames = map[Kind]string{
	Hamming:                "hamming",
	LongestCommonSubstring: "lcs",
	CategoryOverlap:        "categories",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind accepts "hamming", "lcs" (or "longest-common-substring") and
// "categories" (or "category-overlap"), case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hamming":
		return Hamming, nil
	case "lcs", "longest-common-substring":
		return LongestCommonSubstring, nil
	case "categories", "category-overlap":
		return CategoryOverlap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Set is a collection of enabled signals.
type Set map[Kind]bool

// NewSet builds a Set from kinds.
func NewSet(kinds ...Kind) Set {
	s := make(Set, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}

	return s
}

// Has reports whether k is enabled.
func (s Set) Has(k Kind) bool { return s[k] }

// Kinds returns the enabled signals in declaration order.
func (s Set) Kinds() []Kind {
	out := make([]Kind, 0, len(s))
	for k, on := range s {
		if on {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Options configures an Evaluator.
//
// Fields:
//   - Enabled: the signals that contribute to hits.
//   - K: numerator of K / hits²; must be > 0.
type Options struct {
	Enabled Set
	K       float64
}

// DefaultOptions returns no enabled signals and K = DefaultK.
func DefaultOptions() Options {
	return Options{Enabled: Set{}, K: DefaultK}
}
