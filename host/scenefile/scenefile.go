// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package scenefile implements host.Scene backed by plain data.
// Scenes can be built in code or loaded from a YAML description,
// which is how the regression fixtures are authored.
package scenefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/ramex/host"
)

const prefix = "scenefile: "

// Scene implements host.Scene.
type Scene struct {
	SceneName string
	Objs      []*Object
}

// Name returns the scene's name.
func (s *Scene) Name() string { return s.SceneName }

// Objects returns the scene's objects in authoring order.
func (s *Scene) Objects() []host.Object {
	objs := make([]host.Object, len(s.Objs))
	for i := range s.Objs {
		objs[i] = s.Objs[i]
	}
	return objs
}

// Add appends an object to the scene.
func (s *Scene) Add(o *Object) { s.Objs = append(s.Objs, o) }

// Object implements host.Object.
type Object struct {
	ObjName string
	ObjKind host.Kind
	T       mgl32.Vec3
	R       mgl32.Quat
	S       mgl32.Vec3
	Par     *Object
	MeshRef *Mesh
	Mods    []host.Modifier
}

// NewObject creates an object of the given kind with an
// identity transform.
func NewObject(name string, kind host.Kind) *Object {
	return &Object{
		ObjName: name,
		ObjKind: kind,
		R:       mgl32.QuatIdent(),
		S:       mgl32.Vec3{1, 1, 1},
	}
}

func (o *Object) Name() string               { return o.ObjName }
func (o *Object) Kind() host.Kind            { return o.ObjKind }
func (o *Object) Translation() mgl32.Vec3    { return o.T }
func (o *Object) Rotation() mgl32.Quat       { return o.R }
func (o *Object) Scale() mgl32.Vec3          { return o.S }
func (o *Object) Modifiers() []host.Modifier { return o.Mods }

// Parent returns the object's parent, or nil.
func (o *Object) Parent() host.Object {
	if o.Par == nil {
		return nil
	}
	return o.Par
}

// Mesh returns the object's mesh data-block, or nil.
func (o *Object) Mesh() host.Mesh {
	if o.MeshRef == nil {
		return nil
	}
	return o.MeshRef
}

// Mesh implements host.Mesh.
type Mesh struct {
	MeshID string
	Pos    []mgl32.Vec3
	Nrm    []mgl32.Vec3
	Idx    []uint32
}

func (m *Mesh) ID() string              { return m.MeshID }
func (m *Mesh) Positions() []mgl32.Vec3 { return m.Pos }
func (m *Mesh) Normals() []mgl32.Vec3   { return m.Nrm }
func (m *Mesh) Indices() []uint32       { return m.Idx }

// Cube returns a unit cube data-block centered at the origin.
func Cube(id string) *Mesh {
	return &Mesh{
		MeshID: id,
		Pos: []mgl32.Vec3{
			{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
			{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
		},
		Idx: []uint32{
			0, 2, 1, 0, 3, 2,
			4, 5, 6, 4, 6, 7,
			0, 1, 5, 0, 5, 4,
			3, 6, 2, 3, 7, 6,
			0, 7, 3, 0, 4, 7,
			1, 2, 6, 1, 6, 5,
		},
	}
}

// YAML description layout.
type sceneDesc struct {
	Name    string              `yaml:"name"`
	Objects []objectDesc        `yaml:"objects"`
	Meshes  map[string]meshDesc `yaml:"meshes"`
}

type objectDesc struct {
	Name        string         `yaml:"name"`
	Kind        string         `yaml:"kind"`
	Parent      string         `yaml:"parent"`
	Translation [3]float32     `yaml:"translation"`
	Rotation    [3]float32     `yaml:"rotation"` // Euler XYZ, degrees.
	Scale       *[3]float32    `yaml:"scale"`
	Mesh        string         `yaml:"mesh"`
	Modifiers   []modifierDesc `yaml:"modifiers"`
}

type meshDesc struct {
	Positions [][3]float32 `yaml:"positions"`
	Normals   [][3]float32 `yaml:"normals"`
	Indices   []uint32     `yaml:"indices"`
	Builtin   string       `yaml:"builtin"` // e.g. "cube"
}

type modifierDesc struct {
	Kind   string     `yaml:"kind"`
	Axis   [3]bool    `yaml:"axis"`
	Count  int        `yaml:"count"`
	Offset [3]float32 `yaml:"offset"`
}

var kinds = map[string]host.Kind{
	"mesh":    host.KMesh,
	"curve":   host.KCurve,
	"surface": host.KSurface,
	"text":    host.KText,
	"meta":    host.KMeta,
	"empty":   host.KEmpty,
}

// Load reads a YAML scene description from path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a YAML scene description from r.
func Decode(r io.Reader) (*Scene, error) {
	var desc sceneDesc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&desc); err != nil {
		return nil, fmt.Errorf(prefix+"cannot decode scene description: %w", err)
	}
	return fromDesc(&desc)
}

func fromDesc(desc *sceneDesc) (*Scene, error) {
	meshes := make(map[string]*Mesh, len(desc.Meshes))
	for id, md := range desc.Meshes {
		if md.Builtin != "" {
			if md.Builtin != "cube" {
				return nil, errors.New(prefix + "unknown builtin mesh: " + md.Builtin)
			}
			meshes[id] = Cube(id)
			continue
		}
		m := &Mesh{MeshID: id, Idx: md.Indices}
		for _, p := range md.Positions {
			m.Pos = append(m.Pos, mgl32.Vec3(p))
		}
		for _, n := range md.Normals {
			m.Nrm = append(m.Nrm, mgl32.Vec3(n))
		}
		meshes[id] = m
	}

	s := &Scene{SceneName: desc.Name}
	byName := make(map[string]*Object, len(desc.Objects))
	for i := range desc.Objects {
		od := &desc.Objects[i]
		kind, ok := kinds[od.Kind]
		if !ok {
			return nil, errors.New(prefix + "unknown object kind: " + od.Kind)
		}
		o := NewObject(od.Name, kind)
		o.T = mgl32.Vec3(od.Translation)
		o.R = eulerXYZ(od.Rotation)
		if od.Scale != nil {
			o.S = mgl32.Vec3(*od.Scale)
		}
		if od.Mesh != "" {
			m, ok := meshes[od.Mesh]
			if !ok {
				return nil, errors.New(prefix + "object " + od.Name + " references unknown mesh " + od.Mesh)
			}
			o.MeshRef = m
		} else if kind == host.KMesh {
			return nil, errors.New(prefix + "mesh object " + od.Name + " names no mesh")
		}
		for _, md := range od.Modifiers {
			mod, err := modifier(md)
			if err != nil {
				return nil, err
			}
			o.Mods = append(o.Mods, mod)
		}
		if _, dup := byName[od.Name]; dup {
			return nil, errors.New(prefix + "duplicate object name: " + od.Name)
		}
		byName[od.Name] = o
		s.Add(o)
	}
	// Parent links can reference objects in any order,
	// so resolve them after all objects exist.
	for i := range desc.Objects {
		od := &desc.Objects[i]
		if od.Parent == "" {
			continue
		}
		par, ok := byName[od.Parent]
		if !ok {
			return nil, errors.New(prefix + "object " + od.Name + " references unknown parent " + od.Parent)
		}
		byName[od.Name].Par = par
	}
	return s, nil
}

func modifier(md modifierDesc) (host.Modifier, error) {
	switch md.Kind {
	case "mirror":
		return host.Modifier{Kind: host.MMirror, Axis: md.Axis}, nil
	case "array":
		return host.Modifier{
			Kind:   host.MArray,
			Count:  md.Count,
			Offset: mgl32.Vec3(md.Offset),
		}, nil
	default:
		return host.Modifier{}, errors.New(prefix + "unknown modifier kind: " + md.Kind)
	}
}

// eulerXYZ converts XYZ Euler angles in degrees to a quaternion.
func eulerXYZ(deg [3]float32) mgl32.Quat {
	const toRad = math32.Pi / 180
	return mgl32.AnglesToQuat(deg[0]*toRad, deg[1]*toRad, deg[2]*toRad, mgl32.XYZ)
}
