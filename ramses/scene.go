// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package ramses

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/ramex/ramses/rbf"
)

const prefix = "ramses: "

// New creates the in-process framework implementation.
func New() Framework { return framework{} }

type framework struct{}

// CreateScene creates an empty named scene.
func (framework) CreateScene(name string) Scene {
	return &scene{name: name}
}

type node struct {
	name   string
	parent int // Index into scene.nodes, or -1.
	mesh   int // Index into scene.meshes, or -1.
	effect int // Index into scene.effects, or -1.
	local  mgl32.Mat4
}

type mesh struct {
	name      string
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	indices   []uint32
}

type effect struct {
	name     string
	vertex   string
	fragment string
}

// scene is the in-process native scene model. Handles are
// 1-based so the zero value stays invalid (Nil).
type scene struct {
	name    string
	nodes   []node
	meshes  []mesh
	effects []effect
}

// Name returns the scene's name.
func (s *scene) Name() string { return s.name }

func (s *scene) nodeAt(n Node) (*node, error) {
	if n < 1 || int(n) > len(s.nodes) {
		return nil, errors.New(prefix + "invalid node handle")
	}
	return &s.nodes[n-1], nil
}

// CreateNode creates an empty scene object.
func (s *scene) CreateNode(name string) (Node, error) {
	s.nodes = append(s.nodes, node{
		name:   name,
		parent: -1,
		mesh:   -1,
		effect: -1,
		local:  mgl32.Ident4(),
	})
	return Node(len(s.nodes)), nil
}

// SetParent makes child a descendant of parent.
func (s *scene) SetParent(child, parent Node) error {
	c, err := s.nodeAt(child)
	if err != nil {
		return err
	}
	if _, err := s.nodeAt(parent); err != nil {
		return err
	}
	if child == parent {
		return errors.New(prefix + "node cannot parent itself")
	}
	c.parent = int(parent) - 1
	return nil
}

// SetTransform sets a node's local transform.
func (s *scene) SetTransform(n Node, local mgl32.Mat4) error {
	nd, err := s.nodeAt(n)
	if err != nil {
		return err
	}
	nd.local = local
	return nil
}

// CreateMesh creates a geometry resource.
func (s *scene) CreateMesh(name string, positions, normals []mgl32.Vec3, indices []uint32) (Mesh, error) {
	var reason string
	switch {
	case len(indices)%3 != 0:
		reason = "index count not a multiple of 3"
	case len(normals) > 0 && len(normals) != len(positions):
		reason = "normal count does not match vertex count"
	default:
		for _, i := range indices {
			if int(i) >= len(positions) {
				reason = "index out of bounds"
				break
			}
		}
	}
	if reason != "" {
		return Nil, errors.New(prefix + "malformed mesh " + name + ": " + reason)
	}
	s.meshes = append(s.meshes, mesh{name, positions, normals, indices})
	return Mesh(len(s.meshes)), nil
}

// CreateEffect creates a shader pair resource.
func (s *scene) CreateEffect(name, vertex, fragment string) (Effect, error) {
	if vertex == "" || fragment == "" {
		return Nil, errors.New(prefix + "effect " + name + " with empty shader source")
	}
	s.effects = append(s.effects, effect{name, vertex, fragment})
	return Effect(len(s.effects)), nil
}

// BindMesh attaches a geometry resource and an effect to a
// node.
func (s *scene) BindMesh(n Node, m Mesh, e Effect) error {
	nd, err := s.nodeAt(n)
	if err != nil {
		return err
	}
	if m < 1 || int(m) > len(s.meshes) {
		return errors.New(prefix + "invalid mesh handle")
	}
	if e < 1 || int(e) > len(s.effects) {
		return errors.New(prefix + "invalid effect handle")
	}
	nd.mesh = int(m) - 1
	nd.effect = int(e) - 1
	return nil
}

// Validate runs the consistency pass: every reference must
// resolve, no resource may be orphaned, node parentage must
// be acyclic and no mesh may be empty.
func (s *scene) Validate() error {
	meshUsed := make([]bool, len(s.meshes))
	effectUsed := make([]bool, len(s.effects))
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.mesh >= 0 {
			if n.mesh >= len(s.meshes) {
				return errors.New(prefix + "node " + n.name + ": dangling mesh reference")
			}
			if n.effect < 0 {
				return errors.New(prefix + "node " + n.name + ": mesh bound without effect")
			}
			meshUsed[n.mesh] = true
		}
		if n.effect >= 0 {
			if n.effect >= len(s.effects) {
				return errors.New(prefix + "node " + n.name + ": dangling effect reference")
			}
			effectUsed[n.effect] = true
		}
		// Host scenes are acyclic; imported or linked data
		// may not be. Walking len(nodes) parent links from
		// any node must reach a root.
		at := i
		for range s.nodes {
			if s.nodes[at].parent < 0 {
				at = -1
				break
			}
			at = s.nodes[at].parent
		}
		if at >= 0 {
			return errors.New(prefix + "node " + n.name + ": cyclic parentage")
		}
	}
	for i, used := range meshUsed {
		if !used {
			return errors.New(prefix + "orphaned mesh resource " + s.meshes[i].name)
		}
	}
	for i, used := range effectUsed {
		if !used {
			return errors.New(prefix + "orphaned effect resource " + s.effects[i].name)
		}
	}
	for i := range s.meshes {
		if len(s.meshes[i].positions) == 0 {
			return errors.New(prefix + "mesh " + s.meshes[i].name + " has no vertices")
		}
	}
	return nil
}

// file converts the scene to its serialized form.
func (s *scene) file() *rbf.File {
	f := &rbf.File{}
	for i := range s.nodes {
		n := &s.nodes[i]
		f.Nodes = append(f.Nodes, rbf.Node{
			Name:      n.name,
			Parent:    int32(n.parent),
			Mesh:      int32(n.mesh),
			Effect:    int32(n.effect),
			Transform: [16]float32(n.local),
		})
	}
	for i := range s.meshes {
		m := &s.meshes[i]
		rm := rbf.Mesh{Name: m.name, Indices: m.indices}
		for _, p := range m.positions {
			rm.Positions = append(rm.Positions, p[0], p[1], p[2])
		}
		for _, v := range m.normals {
			rm.Normals = append(rm.Normals, v[0], v[1], v[2])
		}
		f.Meshes = append(f.Meshes, rm)
	}
	for i := range s.effects {
		e := &s.effects[i]
		f.Effects = append(f.Effects, rbf.Effect{
			Name:     e.name,
			Vertex:   e.vertex,
			Fragment: e.fragment,
		})
	}
	return f
}

// Save writes the scene and its resources to path. It writes
// to a temp file in the destination directory and renames it
// into place, so a failure mid-write never corrupts a
// previous export at path.
func (s *scene) Save(path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ramex-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err = rbf.Encode(tmp, s.file()); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
