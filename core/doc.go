// Package core defines the article Node model shared by every search component,
// the Direction tag carried by each sweep, and Tree, the per-direction arena
// that stores back-pointers as canonical keys.
//
// What
//
//   - Node: one article title with a display form, a canonical form used for
//     identity and string heuristics, a greedy priority, a parent key, a
//     direction tag and a lazily loaded category set.
//   - Direction: Forward (outbound links from the start) or Backward (inbound
//     links from the end).
//   - Tree: key → Node arena; Adopt assigns a parent exactly once, Chain walks
//     back to the root, Join stitches a forward and a backward half-path.
//
// Identity
//
//	Two Nodes denote the same article iff Canonical(a.Title) == Canonical(b.Title).
//	Cost, Parent and Direction are never part of identity.
//
// Concurrency
//
//	Node and Tree are not synchronized. A Tree belongs to a single sweep; the
//	walker only reads both trees after joining the sweeps.
//
// Complexity
//
//   - Adopt, Has, Get: O(1).
//   - Chain, Join:     O(depth).
package core
