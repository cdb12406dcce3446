// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package ir implements the intermediary representation that
// decouples host scene concepts from native framework concepts.
// A fresh IR is constructed per export run and discarded after
// serialization.
package ir

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/ramex/host"
)

// Kind identifies the type of an IR node.
// The set of supported kinds is closed; host objects that do
// not map to one of these are skipped during traversal.
type Kind int

// Kinds.
const (
	NGroup Kind = iota
	NMesh
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case NGroup:
		return "Group"
	case NMesh:
		return "Mesh"
	default:
		return "[!] invalid Kind value"
	}
}

// Node is a single node in the IR scene graph.
type Node struct {
	Name string
	Kind Kind

	// Local transform.
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3

	// World is the resolved world transform.
	// It is valid only after Graph.Resolve.
	World mgl32.Mat4

	// Mesh keys into the export's resource pool.
	// Empty for nodes without geometry.
	Mesh string

	// Obj is the host object this node was translated
	// from. Nil for synthesized nodes (e.g. the root).
	Obj host.Object

	children []*Node
	parent   *Node
}

// NewNode creates a group node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Kind:     NGroup,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		World:    mgl32.Ident4(),
	}
}

// Local composes the node's local transform as T ⋅ R ⋅ S.
func (n *Node) Local() mgl32.Mat4 {
	t := mgl32.Translate3D(n.Translation[0], n.Translation[1], n.Translation[2])
	r := n.Rotation.Mat4()
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in insertion order.
// Callers must not modify the returned slice.
func (n *Node) Children() []*Node { return n.children }

// Insert inserts sub as the last child of n.
func (n *Node) Insert(sub *Node) {
	sub.Remove()
	sub.parent = n
	n.children = append(n.children, sub)
}

// Remove detaches n from its parent, preserving the order of
// its former siblings.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// walk visits n and its descendants depth-first, preserving
// sibling order. It returns false if f requested a stop.
func (n *Node) walk(f func(*Node) bool) bool {
	if !f(n) {
		return false
	}
	for _, c := range n.children {
		if !c.walk(f) {
			return false
		}
	}
	return true
}

// count returns the number of nodes in n's hierarchy.
func (n *Node) count() (x int) {
	n.walk(func(*Node) bool { x++; return true })
	return
}

// Graph is the IR scene graph. It owns a single root node
// under which every translated object hangs.
type Graph struct {
	root  *Node
	byObj map[host.Object]*Node
}

// NewGraph creates a graph whose root is a synthesized
// group node.
func NewGraph(name string) *Graph {
	return &Graph{
		root:  NewNode(name),
		byObj: make(map[host.Object]*Node),
	}
}

// Root returns the graph's root node.
func (g *Graph) Root() *Node { return g.root }

// Len returns the number of nodes in the graph, root included.
func (g *Graph) Len() int { return g.root.count() }

// Insert inserts node under parent and records its host
// object for lookup. A nil parent means the root.
func (g *Graph) Insert(node *Node, parent *Node) {
	if parent == nil {
		parent = g.root
	}
	parent.Insert(node)
	if node.Obj != nil {
		g.byObj[node.Obj] = node
	}
}

// FromHost returns the node translated from obj, or nil.
func (g *Graph) FromHost(obj host.Object) *Node {
	if obj == nil {
		return nil
	}
	return g.byObj[obj]
}

// Walk visits every node depth-first in sibling order,
// starting at the root. Traversal stops when f returns false.
func (g *Graph) Walk(f func(*Node) bool) { g.root.walk(f) }

// Resolve computes world transforms for the whole graph.
// Composition is parent-to-child: child world is the parent's
// world multiplied by the child's local transform.
func (g *Graph) Resolve() {
	var rec func(n *Node, parent mgl32.Mat4)
	rec = func(n *Node, parent mgl32.Mat4) {
		n.World = parent.Mul4(n.Local())
		for _, c := range n.children {
			rec(c, n.World)
		}
	}
	rec(g.root, mgl32.Ident4())
}
