package tree

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// Sentinel errors for structural violations.
var (
	// ErrSelfConnection is returned when a tile is connected to itself.
	ErrSelfConnection = errors.New("tile cannot be its own parent")

	// ErrCycle is returned when the child is the parent or one of its ancestors.
	ErrCycle = errors.New("connection would create a cycle")
)

// Edge is one stored (parent, child) pair.
type Edge struct {
	Parent string
	Child  string
}

// Forest is the connection store. The zero value is not usable; call New.
// It is not safe for concurrent use.
type Forest struct {
	children map[string][]string
	parent   map[string]string
	parents  []string // entry keys in creation order
}

// New creates an empty forest.
func New() *Forest {
	return &Forest{
		children: make(map[string][]string),
		parent:   make(map[string]string),
	}
}

// Connect makes child the last child of parent and then reorders parent's
// children by centerX ascending. A previous parent of child loses it, and
// parent entries that become empty are dropped.
//
// centerX reports a tile's current horizontal center; it is consulted only
// for parent's children.
func (f *Forest) Connect(parent, child string, centerX func(id string) float64) error {
	if parent == child {
		return fmt.Errorf("%s: %w", parent, ErrSelfConnection)
	}
	if f.IsAncestor(child, parent) {
		return fmt.Errorf("%s is an ancestor of %s: %w", child, parent, ErrCycle)
	}

	if old, ok := f.parent[child]; ok {
		f.removeChild(old, child)
	}

	if _, ok := f.children[parent]; !ok {
		f.parents = append(f.parents, parent)
	}
	kids := append(f.children[parent], child)
	sort.SliceStable(kids, func(i, j int) bool {
		return centerX(kids[i]) < centerX(kids[j])
	})
	f.children[parent] = kids
	f.parent[child] = parent
	return nil
}

// Disconnect removes the (parent, child) pair. Unknown pairs are ignored.
// It reports whether a pair was removed.
func (f *Forest) Disconnect(parent, child string) bool {
	if f.parent[child] != parent {
		return false
	}
	f.removeChild(parent, child)
	return true
}

// DeleteNode removes id from the forest. Its own child list is dropped, so
// former children become roots (or free-floating tiles); they are never
// re-attached to id's parent.
func (f *Forest) DeleteNode(id string) {
	if kids, ok := f.children[id]; ok {
		for _, k := range kids {
			delete(f.parent, k)
		}
		f.dropEntry(id)
	}
	if p, ok := f.parent[id]; ok {
		f.removeChild(p, id)
	}
}

func (f *Forest) removeChild(parent, child string) {
	f.children[parent] = slices.DeleteFunc(f.children[parent], func(s string) bool { return s == child })
	delete(f.parent, child)
	if len(f.children[parent]) == 0 {
		f.dropEntry(parent)
	}
}

func (f *Forest) dropEntry(parent string) {
	delete(f.children, parent)
	f.parents = slices.DeleteFunc(f.parents, func(s string) bool { return s == parent })
}

// Children returns a copy of id's ordered child list.
func (f *Forest) Children(id string) []string {
	return slices.Clone(f.children[id])
}

// Parent returns id's parent, if any.
func (f *Forest) Parent(id string) (string, bool) {
	p, ok := f.parent[id]
	return p, ok
}

// HasChildren reports whether id has at least one child.
func (f *Forest) HasChildren(id string) bool { return len(f.children[id]) > 0 }

// InForest reports whether id takes part in any stored pair.
func (f *Forest) InForest(id string) bool {
	if _, ok := f.parent[id]; ok {
		return true
	}
	_, ok := f.children[id]
	return ok
}

// Len returns the number of stored pairs.
func (f *Forest) Len() int { return len(f.parent) }

// Empty reports whether no pairs are stored.
func (f *Forest) Empty() bool { return len(f.parent) == 0 }

// Nodes returns every forest member, each parent followed by its children,
// parents in the order their entries were created.
func (f *Forest) Nodes() []string {
	seen := make(map[string]bool, len(f.parent)+len(f.parents))
	var out []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, p := range f.parents {
		add(p)
		for _, c := range f.children[p] {
			add(c)
		}
	}
	return out
}

// Roots returns forest members without a parent, in [Forest.Nodes] order.
func (f *Forest) Roots() []string {
	var out []string
	for _, p := range f.parents {
		if _, ok := f.parent[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Edges returns every stored pair: parents in entry order, children in
// sibling order.
func (f *Forest) Edges() []Edge {
	out := make([]Edge, 0, len(f.parent))
	for _, p := range f.parents {
		for _, c := range f.children[p] {
			out = append(out, Edge{Parent: p, Child: c})
		}
	}
	return out
}

// Descendants returns every strict descendant of id in depth-first,
// sibling order.
func (f *Forest) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(n string) {
		for _, c := range f.children[n] {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// IsAncestor reports whether a is a strict ancestor of b.
func (f *Forest) IsAncestor(a, b string) bool {
	for cur, ok := f.parent[b]; ok; cur, ok = f.parent[cur] {
		if cur == a {
			return true
		}
	}
	return false
}

// Depth returns the number of ancestors of id.
func (f *Forest) Depth(id string) int {
	d := 0
	for cur, ok := f.parent[id]; ok; cur, ok = f.parent[cur] {
		d++
	}
	return d
}

// Root returns the root of the tree containing id (id itself for roots and
// free-floating tiles).
func (f *Forest) Root(id string) string {
	for {
		p, ok := f.parent[id]
		if !ok {
			return id
		}
		id = p
	}
}
