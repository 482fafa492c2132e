package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the parent arena.
var (
	// ErrEmptyKey indicates a Node with an empty canonical title.
	ErrEmptyKey = errors.New("core: node key is empty")

	// ErrNodeNotFound indicates a key that is not present in the Tree.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrBrokenChain indicates a parent key that does not resolve to a node.
	ErrBrokenChain = errors.New("core: parent chain is broken")
)

// Tree is the arena of every Node adopted by one sweep, keyed by canonical
// title. Parents are stored as keys, so the structure is a forest rooted at the
// sweep's seed and can never form a cycle: a key is adopted at most once and
// its parent must already be present.
//
// A Tree is owned by exactly one sweep goroutine. Readers from other
// goroutines must wait until that sweep has finished (the walker joins both
// sweeps before reconstructing a path).
type Tree struct {
	dir   Direction
	root  string
	nodes map[string]*Node
}

// NewTree creates a Tree for direction d seeded with root.
// Complexity: O(1).
func NewTree(d Direction, root *Node) *Tree {
	t := &Tree{
		dir:   d,
		root:  root.Key(),
		nodes: make(map[string]*Node),
	}
	root.Direction = d
	root.Parent = ""
	t.nodes[root.Key()] = root

	return t
}

// Direction returns the sweep direction this Tree belongs to.
func (t *Tree) Direction() Direction { return t.dir }

// Root returns the seed node.
func (t *Tree) Root() *Node { return t.nodes[t.root] }

// Len returns the number of adopted nodes, root included.
func (t *Tree) Len() int { return len(t.nodes) }

// Has reports whether key was already adopted.
func (t *Tree) Has(key string) bool {
	_, ok := t.nodes[key]

	return ok
}

// Get returns the node stored under key.
func (t *Tree) Get(key string) (*Node, bool) {
	n, ok := t.nodes[key]

	return n, ok
}

// Adopt records n as a child of parent. It assigns n.Parent and n.Direction
// and reports false without touching n when n's key is already present, so a
// parent pointer is never reassigned.
// Returns ErrNodeNotFound if parent was not adopted first.
// Complexity: O(1).
func (t *Tree) Adopt(n, parent *Node) (bool, error) {
	if n.Key() == "" {
		return false, ErrEmptyKey
	}
	if _, ok := t.nodes[parent.Key()]; !ok {
		return false, fmt.Errorf("%w: parent %q", ErrNodeNotFound, parent.Title)
	}
	if _, exists := t.nodes[n.Key()]; exists {
		return false, nil
	}
	n.Parent = parent.Key()
	n.Direction = t.dir
	t.nodes[n.Key()] = n

	return true, nil
}

// Chain returns the titles from key up to the root, key first.
// Complexity: O(depth).
func (t *Tree) Chain(key string) ([]string, error) {
	cur, ok := t.nodes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, key)
	}
	chain := make([]string, 0, 8)
	for steps := 0; ; steps++ {
		if steps > len(t.nodes) {
			return nil, fmt.Errorf("%w: cycle at %q", ErrBrokenChain, cur.Title)
		}
		chain = append(chain, cur.Title)
		if cur.IsRoot() {
			return chain, nil
		}
		next, ok := t.nodes[cur.Parent]
		if !ok {
			return nil, fmt.Errorf("%w: %q has parent %q", ErrBrokenChain, cur.Title, cur.Parent)
		}
		cur = next
	}
}

// Join stitches a forward half-path and a backward half-path into one
// start→end title sequence.
//
// fwdKey is looked up in the forward tree and its chain reversed (start first);
// bwdKey is looked up in the backward tree and its chain kept as is (end last).
// When both halves end on the same article the meeting vertex appears once.
func Join(fwd, bwd *Tree, fwdKey, bwdKey string) ([]string, error) {
	head, err := fwd.Chain(fwdKey)
	if err != nil {
		return nil, fmt.Errorf("forward half: %w", err)
	}
	tail, err := bwd.Chain(bwdKey)
	if err != nil {
		return nil, fmt.Errorf("backward half: %w", err)
	}
	// reverse head so it runs start → fwdKey
	for i, j := 0, len(head)-1; i < j; i, j = i+1, j-1 {
		head[i], head[j] = head[j], head[i]
	}
	if Canonical(head[len(head)-1]) == Canonical(tail[0]) {
		tail = tail[1:]
	}

	return append(head, tail...), nil
}
