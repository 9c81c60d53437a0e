package synth

import (
	"strings"

	"github.com/toyz/synth/pkg/descriptor"
)

// Node is one descriptor currently under construction. Nodes form a doubly
// linked list in entry order that mirrors the generation call stack.
type Node struct {
	t          descriptor.Type
	prev, next *Node
	depth      int
}

// Type returns the descriptor under construction
func (n *Node) Type() descriptor.Type { return n.t }

// Depth returns the zero-based position of n on its path
func (n *Node) Depth() int { return n.depth }

// Segment returns the descriptors from n to the current tail
func (n *Node) Segment() []descriptor.Type {
	var out []descriptor.Type
	for cur := n; cur != nil; cur = cur.next {
		out = append(out, cur.t)
	}
	return out
}

// String renders the segment from n to the tail, e.g. "A -> B -> C".
// Only meaningful while the path is live.
func (n *Node) String() string {
	seg := n.Segment()
	parts := make([]string, len(seg))
	for i, t := range seg {
		parts[i] = t.String()
	}
	return strings.Join(parts, " -> ")
}

// Path is the live generation path of one top-level Generate call. A
// descriptor appears at most once. Path is not safe for concurrent use; every
// call tree owns its own.
type Path struct {
	head, tail *Node
	index      map[descriptor.Type]*Node
}

// NewPath creates an empty path
func NewPath() *Path {
	return &Path{index: make(map[descriptor.Type]*Node)}
}

// Enter appends t to the path and returns nil. If t is already live, the path
// is left untouched and the existing node is returned: the caller has hit a
// cycle and must not recurse. Every nil return must be paired with one Exit.
func (p *Path) Enter(t descriptor.Type) *Node {
	if existing, ok := p.index[t]; ok {
		return existing
	}

	n := &Node{t: t, prev: p.tail}
	if p.tail != nil {
		p.tail.next = n
		n.depth = p.tail.depth + 1
	} else {
		p.head = n
	}
	p.tail = n
	p.index[t] = n
	return nil
}

// Exit removes the tail node. Exit on an empty path means Enter and Exit calls
// are mismatched, which is a programming error, so it panics.
func (p *Path) Exit() {
	n := p.tail
	if n == nil {
		panic("synth: Path.Exit called on an empty path")
	}

	p.tail = n.prev
	if p.tail != nil {
		p.tail.next = nil
	} else {
		p.head = nil
	}
	n.prev = nil
	delete(p.index, n.t)
}

// Len returns the number of live nodes
func (p *Path) Len() int { return len(p.index) }

// Contains reports whether t is live
func (p *Path) Contains(t descriptor.Type) bool {
	_, ok := p.index[t]
	return ok
}

// Tail returns the most recently entered node, nil when empty
func (p *Path) Tail() *Node { return p.tail }

// Types returns the live descriptors from head to tail
func (p *Path) Types() []descriptor.Type {
	if p.head == nil {
		return nil
	}
	return p.head.Segment()
}

// String renders the whole path
func (p *Path) String() string {
	if p.head == nil {
		return ""
	}
	return p.head.String()
}
