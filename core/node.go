package core

import (
	"math"
	"strings"
)

// Direction tags the sweep that discovered a Node.
//
// Forward follows outbound links from the start article; Backward follows
// inbound links ("what links here") from the end article.
type Direction int

const (
	// Forward is the sweep seeded at the start article.
	Forward Direction = iota

	// Backward is the sweep seeded at the end article.
	Backward
)

// Opposite returns the counterpart direction.
func (d Direction) Opposite() Direction {
	if d == Forward {
		return Backward
	}

	return Forward
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "unknown"
	}
}

// Node is one article title as seen by a sweep.
//
// Identity is the canonical title alone: Cost, Parent and Direction never take
// part in equality, so any map or set of Nodes must be keyed on Key().
// Parent is the canonical key of the node this one was discovered from and is
// empty for the two roots. It is written once, before the node is adopted by a
// frontier, and read only during path reconstruction.
type Node struct {
	// Title is the display form, original casing, used for requests and output.
	Title string

	// Canonical is the lowercased, trimmed form used for comparisons.
	Canonical string

	// Cost is the greedy priority; lower is better. +Inf until assigned.
	Cost float64

	// Parent is the canonical key of the discovering node ("" for a root).
	Parent string

	// Direction is the sweep that adopted this node.
	Direction Direction

	// Categories holds the node's category titles, filled lazily and only
	// when category overlap is enabled.
	Categories map[string]struct{}
}

// NewNode returns a Node for title with an infinite cost and no parent.
// Complexity: O(len(title)).
func NewNode(title string) *Node {
	return &Node{
		Title:     title,
		Canonical: Canonical(title),
		Cost:      math.Inf(1),
	}
}

// NewRoot returns a seed Node for direction d with cost 0.
func NewRoot(title string, d Direction) *Node {
	n := NewNode(title)
	n.Cost = 0
	n.Direction = d

	return n
}

// Key returns the identity key of n.
func (n *Node) Key() string { return n.Canonical }

// Equal reports whether n and other denote the same article.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}

	return n.Canonical == other.Canonical
}

// IsRoot reports whether n has no parent.
func (n *Node) IsRoot() bool { return n.Parent == "" }

// SetCategories stores cats on n. Only the first call has an effect.
func (n *Node) SetCategories(cats []string) {
	if n.Categories != nil {
		return
	}
	n.Categories = make(map[string]struct{}, len(cats))
	for _, c := range cats {
		n.Categories[c] = struct{}{}
	}
}

// HasCategories reports whether categories were already loaded for n.
func (n *Node) HasCategories() bool { return n.Categories != nil }

// String returns the display title.
func (n *Node) String() string { return n.Title }

// Canonical returns the comparison form of an article title:
// surrounding whitespace trimmed, underscores read as spaces, lowercased.
func Canonical(title string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(title, "_", " ")))
}

// URLTitle returns title in the form used inside article URLs
// (trimmed, spaces replaced by underscores).
func URLTitle(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}
