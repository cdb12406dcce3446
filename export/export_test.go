// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/ramex/host"
	"github.com/gviegas/ramex/host/scenefile"
	"github.com/gviegas/ramex/ramses"
	"github.com/gviegas/ramex/ramses/rbf"
)

// cubeScene is a single translated cube at (2, 2, 2).
func cubeScene() *scenefile.Scene {
	o := meshObj("cube", scenefile.Cube("cube"))
	o.T = mgl32.Vec3{2, 2, 2}
	return &scenefile.Scene{SceneName: "cube scene", Objs: []*scenefile.Object{o}}
}

func decode(t *testing.T, path string) *rbf.File {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	f, err := rbf.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return f
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ramses")
	warns, err := New(ramses.New(), nil).Export(cubeScene(), path, nil)
	require.NoError(t, err)
	assert.Empty(t, warns)

	f := decode(t, path)
	require.Len(t, f.Nodes, 2) // Scene root plus the cube.
	require.Len(t, f.Meshes, 1)
	require.Len(t, f.Effects, 1)

	root := f.Nodes[0]
	assert.Equal(t, "cube scene", root.Name)
	assert.Equal(t, int32(-1), root.Parent)
	assert.Equal(t, int32(-1), root.Mesh)

	cube := f.Nodes[1]
	assert.Equal(t, "cube", cube.Name)
	assert.Equal(t, int32(0), cube.Parent)
	assert.Equal(t, int32(0), cube.Mesh)
	assert.Equal(t, int32(0), cube.Effect)
	// Column-major translation.
	assert.Equal(t, [3]float32{2, 2, 2},
		[3]float32{cube.Transform[12], cube.Transform[13], cube.Transform[14]})

	assert.Len(t, f.Meshes[0].Positions, 8*3)
	assert.Len(t, f.Meshes[0].Indices, 36)
	assert.Contains(t, f.Effects[0].Vertex, "u_ModelMatrix")
}

func TestExportDeterminism(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.ramses")
	p2 := filepath.Join(dir, "b.ramses")
	e := New(ramses.New(), nil)
	_, err := e.Export(cubeScene(), p1, nil)
	require.NoError(t, err)
	_, err = e.Export(cubeScene(), p2, nil)
	require.NoError(t, err)

	b1, err := os.ReadFile(p1)
	require.NoError(t, err)
	b2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, b1, b2, "equal scenes must export byte-identical files")
}

func TestExportSharedEffect(t *testing.T) {
	// N mesh nodes with the same GLSL yield one effect resource.
	cube := scenefile.Cube("cube")
	sc := &scenefile.Scene{SceneName: "s"}
	sc.Add(meshObj("a", cube))
	sc.Add(meshObj("b", cube))
	sc.Add(meshObj("c", cube))

	path := filepath.Join(t.TempDir(), "out.ramses")
	_, err := New(ramses.New(), nil).Export(sc, path, nil)
	require.NoError(t, err)

	f := decode(t, path)
	assert.Len(t, f.Nodes, 4)
	assert.Len(t, f.Meshes, 1)
	assert.Len(t, f.Effects, 1)
}

func TestExportCustomGLSL(t *testing.T) {
	cube := scenefile.Cube("cube")
	sc := &scenefile.Scene{SceneName: "s"}
	sc.Add(meshObj("plain", cube))
	sc.Add(meshObj("tinted", cube))

	path := filepath.Join(t.TempDir(), "out.ramses")
	opts := &Options{ShaderDirs: map[string]string{"tinted": "testdata/red"}}
	_, err := New(ramses.New(), nil).Export(sc, path, opts)
	require.NoError(t, err)

	f := decode(t, path)
	require.Len(t, f.Effects, 2)
	assert.Contains(t, f.Effects[0].Fragment, "vec4(1.0, 1.0, 1.0, 1.0)")
	assert.Contains(t, f.Effects[1].Fragment, "vec4(1.0, 0.0, 0.0, 1.0)")
	assert.Equal(t, "red/default", f.Effects[1].Name)

	// A missing shader directory aborts the export.
	opts.ShaderDirs["tinted"] = filepath.Join(t.TempDir(), "nope")
	_, err = New(ramses.New(), nil).Export(sc, path, opts)
	require.Error(t, err)
}

func TestExportInvalidScene(t *testing.T) {
	// A zero-vertex mesh passes traversal and fails validation,
	// and nothing is written.
	o := meshObj("degenerate", &scenefile.Mesh{MeshID: "void"})
	sc := &scenefile.Scene{SceneName: "s", Objs: []*scenefile.Object{o}}

	path := filepath.Join(t.TempDir(), "out.ramses")
	_, err := New(ramses.New(), nil).Export(sc, path, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed validation")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "failed export must not write output")
}

func TestExportWarnings(t *testing.T) {
	sc := cubeScene()
	sc.Add(scenefile.NewObject("light", host.KEmpty))

	path := filepath.Join(t.TempDir(), "out.ramses")
	warns, err := New(ramses.New(), nil).Export(sc, path, nil)
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, "light", warns[0].Object)

	f := decode(t, path)
	assert.Len(t, f.Nodes, 2)
}

// rejectFramework wraps the in-process framework, failing
// every mesh creation.
type rejectFramework struct{}

func (rejectFramework) CreateScene(name string) ramses.Scene {
	return rejectScene{ramses.New().CreateScene(name)}
}

type rejectScene struct {
	ramses.Scene
}

func (rejectScene) CreateMesh(string, []mgl32.Vec3, []mgl32.Vec3, []uint32) (ramses.Mesh, error) {
	return ramses.Nil, errors.New("resource budget exceeded")
}

func TestExportRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ramses")
	_, err := New(rejectFramework{}, nil).Export(cubeScene(), path, nil)
	require.Error(t, err)

	var ee *EntityError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "mesh cube", ee.Entity)
	assert.ErrorContains(t, ee.Err, "resource budget")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCheck(t *testing.T) {
	warns, err := Check(cubeScene(), nil)
	require.NoError(t, err)
	assert.Empty(t, warns)

	o := meshObj("degenerate", &scenefile.Mesh{MeshID: "void"})
	sc := &scenefile.Scene{SceneName: "s", Objs: []*scenefile.Object{o}}
	_, err = Check(sc, nil)
	assert.ErrorContains(t, err, "failed validation")
}
