package heuristic

import (
	"math"

	"github.com/katalvlaran/wikiwalk/core"
)

// Evaluator computes greedy priorities relative to an opposing target.
//
// Description:
//
//	Every enabled signal adds to a single hits score:
//	  hamming     → 1 / HammingDistance(node, target)
//	  lcs         → LongestCommonSubstring(node, target)
//	  categories  → CategoryOverlap(node, target)
//	The priority is K / hits². More evidence of similarity gives a strictly
//	lower cost; zero evidence gives +Inf, so such nodes are expanded last.
//
// The ordering is a heuristic and not a lower bound on the remaining
// distance: a greedy best-first walk ordered by it finds a path, not
// necessarily the shortest one.
//
// An Evaluator is immutable after construction and safe for concurrent use.
type Evaluator struct {
	enabled Set
	k       float64
}

// New validates opts and returns an Evaluator.
// Returns ErrBadK if opts.K <= 0.
func New(opts Options) (*Evaluator, error) {
	if !(opts.K > 0) {
		return nil, ErrBadK
	}
	enabled := make(Set, len(opts.Enabled))
	for k, on := range opts.Enabled {
		if on {
			enabled[k] = true
		}
	}

	return &Evaluator{enabled: enabled, k: opts.K}, nil
}

// Enabled reports whether k contributes to the score.
func (e *Evaluator) Enabled(k Kind) bool { return e.enabled.Has(k) }

// NeedsCategories reports whether nodes must have categories loaded before
// Cost is meaningful.
func (e *Evaluator) NeedsCategories() bool { return e.enabled.Has(CategoryOverlap) }

// Hits returns the combined similarity evidence of node towards target.
// An exact title match under the hamming signal yields +Inf.
func (e *Evaluator) Hits(node, target *core.Node) float64 {
	var hits float64
	if e.enabled.Has(Hamming) {
		d := HammingDistance(node.Canonical, target.Canonical)
		if d == 0 {
			return math.Inf(1)
		}
		hits += 1 / float64(d)
	}
	if e.enabled.Has(LongestCommonSubstring) {
		hits += float64(LongestCommonSubstringLen(node.Canonical, target.Canonical))
	}
	if e.enabled.Has(CategoryOverlap) {
		hits += float64(CategoryOverlapCount(node.Categories, target.Categories))
	}

	return hits
}

// Cost returns K / hits² for node relative to target.
func (e *Evaluator) Cost(node, target *core.Node) float64 {
	return CostFromHits(e.k, e.Hits(node, target))
}

// CostFromHits maps a hits score to a priority: +Inf for hits <= 0,
// 0 for infinite hits, K / hits² otherwise.
func CostFromHits(k, hits float64) float64 {
	switch {
	case hits <= 0 || math.IsNaN(hits):
		return math.Inf(1)
	case math.IsInf(hits, 1):
		return 0
	default:
		return k / (hits * hits)
	}
}

// HammingDistance counts position-wise rune mismatches over the shorter of a
// and b, plus the difference in length.
// Complexity: O(max(n, m)).
func HammingDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	short, long := ra, rb
	if len(short) > len(long) {
		short, long = long, short
	}
	d := len(long) - len(short)
	for i := range short {
		if short[i] != long[i] {
			d++
		}
	}

	return d
}

// LongestCommonSubstringLen returns the length, in runes, of the longest
// contiguous run shared by a and b.
//
// Algorithm:
//
//	table[i][j] = table[i-1][j-1] + 1 when a[i-1] == b[j-1], else 0.
//	The answer is the largest cell. Only two rows are kept.
//
// Complexity: Time O(n·m), Memory O(m).
func LongestCommonSubstringLen(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n, m := len(ra), len(rb)
	if n == 0 || m == 0 {
		return 0
	}
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	best := 0
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return best
}

// CategoryOverlapCount returns |a ∩ b|.
func CategoryOverlapCount(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for c := range a {
		if _, ok := b[c]; ok {
			n++
		}
	}

	return n
}
