// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package host defines the read-only view of the authoring
// application's scene that the exporter consumes.
// The exporter never mutates host data.
package host

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the type of a host object.
type Kind int

// Kinds.
const (
	KMesh Kind = iota
	KCurve
	KSurface
	KText
	KMeta
	KEmpty
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KMesh:
		return "Mesh"
	case KCurve:
		return "Curve"
	case KSurface:
		return "Surface"
	case KText:
		return "Text"
	case KMeta:
		return "Meta"
	case KEmpty:
		return "Empty"
	default:
		return "[!] invalid Kind value"
	}
}

// Scene is the host scene's root collection.
type Scene interface {
	// Name returns the scene's name.
	Name() string

	// Objects returns every object in the scene,
	// in host hierarchy order.
	Objects() []Object
}

// Object is a single host scene object.
type Object interface {
	// Name returns the object's name.
	// Names are unique within a scene.
	Name() string

	// Kind returns the object's kind.
	Kind() Kind

	// Parent returns the object's parent,
	// or nil for top-level objects.
	Parent() Object

	// Translation returns the local translation.
	Translation() mgl32.Vec3

	// Rotation returns the local rotation.
	Rotation() mgl32.Quat

	// Scale returns the local scale.
	Scale() mgl32.Vec3

	// Mesh returns the object's mesh data.
	// It returns nil unless Kind is KMesh.
	Mesh() Mesh

	// Modifiers returns the object's modifier stack
	// in authoring order.
	Modifiers() []Modifier
}

// Mesh is a host mesh data-block. It may be shared by
// any number of objects.
type Mesh interface {
	// ID identifies the data-block. Objects sharing
	// geometry report the same ID.
	ID() string

	// Positions returns the vertex positions.
	Positions() []mgl32.Vec3

	// Normals returns per-vertex normals.
	// It returns nil when the mesh has none.
	Normals() []mgl32.Vec3

	// Indices returns the indexed triangle list.
	Indices() []uint32
}

// ModifierKind identifies a modifier.
type ModifierKind int

// Modifier kinds.
const (
	MMirror ModifierKind = iota
	MArray
)

// String implements fmt.Stringer.
func (k ModifierKind) String() string {
	switch k {
	case MMirror:
		return "Mirror"
	case MArray:
		return "Array"
	default:
		return "[!] invalid ModifierKind value"
	}
}

// Modifier is one entry in an object's modifier stack.
// Fields are meaningful per kind only.
type Modifier struct {
	Kind ModifierKind

	// Mirror axes (X, Y, Z).
	Axis [3]bool

	// Array element count, including the original.
	Count int

	// Array per-element offset, in object space.
	Offset mgl32.Vec3
}
