// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package ramses defines the capability interface through
// which scene content is handed to the distribution
// framework, and an in-process implementation of it.
//
// The exporter depends on the interface alone, so it can be
// exercised against a test double without the framework
// present.
package ramses

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node identifies a scene object created by CreateNode.
type Node int

// Mesh identifies a geometry resource created by CreateMesh.
type Mesh int

// Effect identifies a shader pair created by CreateEffect.
type Effect int

// Nil represents an invalid handle of any of the above types.
const Nil = 0

// Framework is the entry point of the native layer.
type Framework interface {
	// CreateScene creates an empty named scene.
	CreateScene(name string) Scene
}

// Scene is the native scene under construction. Handles
// returned by one Scene must not be used with another.
type Scene interface {
	// Name returns the scene's name.
	Name() string

	// CreateNode creates an empty scene object.
	CreateNode(name string) (Node, error)

	// SetParent makes child a descendant of parent.
	SetParent(child, parent Node) error

	// SetTransform sets a node's local transform.
	SetTransform(n Node, local mgl32.Mat4) error

	// CreateMesh creates a geometry resource. It rejects
	// malformed vertex data.
	CreateMesh(name string, positions, normals []mgl32.Vec3, indices []uint32) (Mesh, error)

	// CreateEffect creates a shader pair resource.
	CreateEffect(name, vertex, fragment string) (Effect, error)

	// BindMesh attaches a geometry resource and an effect
	// to a node.
	BindMesh(n Node, m Mesh, e Effect) error

	// Validate runs the framework's consistency pass over
	// the scene. A nil return means the scene would load.
	Validate() error

	// Save writes the scene and its resources to a single
	// file at path. The write is atomic: either the file
	// appears complete or the previous content survives.
	Save(path string) error
}
