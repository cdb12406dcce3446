// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package scenefile

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/ramex/host"
)

const sceneYAML = `
name: demo
meshes:
  cube:
    builtin: cube
  tri:
    positions: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
    normals: [[0, 0, 1], [0, 0, 1], [0, 0, 1]]
    indices: [0, 1, 2]
objects:
  - name: rig
    kind: empty
    translation: [1, 0, 0]
  - name: body
    kind: mesh
    parent: rig
    mesh: cube
    rotation: [0, 0, 90]
    scale: [2, 2, 2]
    modifiers:
      - kind: mirror
        axis: [true, false, false]
      - kind: array
        count: 3
        offset: [1.5, 0, 0]
  - name: fin
    kind: mesh
    parent: body
    mesh: tri
`

func TestDecode(t *testing.T) {
	sc, err := Decode(strings.NewReader(sceneYAML))
	require.NoError(t, err)
	assert.Equal(t, "demo", sc.Name())

	objs := sc.Objects()
	require.Len(t, objs, 3)

	rig := objs[0]
	assert.Equal(t, "rig", rig.Name())
	assert.Equal(t, host.KEmpty, rig.Kind())
	assert.Nil(t, rig.Parent())
	assert.Nil(t, rig.Mesh())
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, rig.Translation())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, rig.Scale())

	body := objs[1]
	assert.Equal(t, host.KMesh, body.Kind())
	assert.Equal(t, rig, body.Parent())
	require.NotNil(t, body.Mesh())
	assert.Equal(t, "cube", body.Mesh().ID())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, body.Scale())
	require.Len(t, body.Modifiers(), 2)
	assert.Equal(t, host.Modifier{
		Kind: host.MMirror,
		Axis: [3]bool{true, false, false},
	}, body.Modifiers()[0])
	assert.Equal(t, host.Modifier{
		Kind:   host.MArray,
		Count:  3,
		Offset: mgl32.Vec3{1.5, 0, 0},
	}, body.Modifiers()[1])

	// 90 degrees around Z.
	want := mgl32.AnglesToQuat(0, 0, math32.Pi/2, mgl32.XYZ)
	rot := body.Rotation()
	assert.InDelta(t, want.W, rot.W, 1e-6)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want.V[i], rot.V[i], 1e-6)
	}

	fin := objs[2]
	assert.Equal(t, body, fin.Parent())
	require.NotNil(t, fin.Mesh())
	assert.Len(t, fin.Mesh().Positions(), 3)
	assert.Len(t, fin.Mesh().Normals(), 3)
	assert.Equal(t, []uint32{0, 1, 2}, fin.Mesh().Indices())
}

func TestDecodeSharedMesh(t *testing.T) {
	const in = `
name: shared
meshes:
  cube: {builtin: cube}
objects:
  - {name: a, kind: mesh, mesh: cube}
  - {name: b, kind: mesh, mesh: cube}
`
	sc, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	objs := sc.Objects()
	require.Len(t, objs, 2)
	// One data-block, two users.
	assert.Same(t, objs[0].Mesh(), objs[1].Mesh())
}

func TestDecodeMalformed(t *testing.T) {
	for _, tc := range [...]struct {
		name   string
		in     string
		reason string
	}{
		{
			"not YAML",
			"{]",
			"cannot decode",
		},
		{
			"unknown kind",
			"objects: [{name: a, kind: armature}]",
			"unknown object kind",
		},
		{
			"unknown builtin",
			"meshes: {m: {builtin: torus}}",
			"unknown builtin mesh",
		},
		{
			"unknown mesh",
			"objects: [{name: a, kind: mesh, mesh: nope}]",
			"unknown mesh",
		},
		{
			"mesh object without mesh",
			"objects: [{name: a, kind: mesh}]",
			"names no mesh",
		},
		{
			"unknown parent",
			"objects: [{name: a, kind: empty, parent: nope}]",
			"unknown parent",
		},
		{
			"duplicate name",
			"objects: [{name: a, kind: empty}, {name: a, kind: empty}]",
			"duplicate object name",
		},
		{
			"unknown modifier",
			"meshes: {m: {builtin: cube}}\nobjects: [{name: a, kind: mesh, mesh: m, modifiers: [{kind: bevel}]}]",
			"unknown modifier kind",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.in))
			assert.ErrorContains(t, err, tc.reason)
		})
	}
}

func TestCube(t *testing.T) {
	m := Cube("cube")
	assert.Equal(t, "cube", m.ID())
	assert.Len(t, m.Positions(), 8)
	assert.Len(t, m.Indices(), 36)
	for _, i := range m.Indices() {
		assert.Less(t, int(i), len(m.Positions()))
	}
}

func TestLoad(t *testing.T) {
	sc, err := Load("testdata/cube.yaml")
	require.NoError(t, err)
	assert.Equal(t, "cube scene", sc.Name())
	require.Len(t, sc.Objects(), 1)
	obj := sc.Objects()[0]
	assert.Equal(t, host.KMesh, obj.Kind())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, obj.Translation())
	require.NotNil(t, obj.Mesh())
	assert.Len(t, obj.Mesh().Positions(), 8)
}
