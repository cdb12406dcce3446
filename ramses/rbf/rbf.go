// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package rbf implements the binary scene/resource file
// format consumed by the distribution framework's loader.
//
// A file is a little-endian stream: a magic/version header
// followed by length-prefixed chunks. Chunk payloads store
// their records in slice order, so encoding a given File
// value is deterministic.
package rbf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// File header.
type header [3]uint32

// Indices in header.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// Chunk framing.
type chunk [2]uint32

// Indices in chunk.
const (
	chunkType   = 0
	chunkLength = 1
	// Then payload.
)

const (
	// header[headerMagic].
	magic = 0x58454d52 // "RMEX"

	// Supported header[headerVersion].
	version = 1

	// chunk[chunkType] values.
	typeNodes   = 0x53444f4e // "NODS"
	typeMeshes  = 0x5348534d // "MSHS"
	typeEffects = 0x53584645 // "EFXS"
)

// File is the decoded form of a scene/resource file.
type File struct {
	Nodes   []Node
	Meshes  []Mesh
	Effects []Effect
}

// Node is one scene-graph node record.
// Parent, Mesh and Effect index into the file's tables;
// -1 means unset.
type Node struct {
	Name      string
	Parent    int32
	Mesh      int32
	Effect    int32
	Transform [16]float32 // Column-major local transform.
}

// Mesh is one geometry resource record.
type Mesh struct {
	Name      string
	Positions []float32 // x, y, z per vertex.
	Normals   []float32 // Empty or len(Positions).
	Indices   []uint32
}

// Effect is one shader pair record.
type Effect struct {
	Name     string
	Vertex   string
	Fragment string
}

func newErr(reason string) error {
	return errors.New("rbf: " + reason)
}

// IsRBF returns whether r refers to a scene/resource file of
// a supported version. It assumes that r was positioned
// accordingly.
func IsRBF(r io.Reader) bool {
	var h header
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != version:
		return false
	default:
		return true
	}
}

func putU32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func putString(w *bytes.Buffer, s string) {
	putU32(w, uint32(len(s)))
	w.WriteString(s)
}

func putF32s(w *bytes.Buffer, fs []float32) {
	putU32(w, uint32(len(fs)))
	binary.Write(w, binary.LittleEndian, fs)
}

func putU32s(w *bytes.Buffer, vs []uint32) {
	putU32(w, uint32(len(vs)))
	binary.Write(w, binary.LittleEndian, vs)
}

// Encode encodes f into w.
func Encode(w io.Writer, f *File) error {
	var nodes, meshes, effects bytes.Buffer

	putU32(&nodes, uint32(len(f.Nodes)))
	for i := range f.Nodes {
		n := &f.Nodes[i]
		putString(&nodes, n.Name)
		putU32(&nodes, uint32(n.Parent))
		putU32(&nodes, uint32(n.Mesh))
		putU32(&nodes, uint32(n.Effect))
		binary.Write(&nodes, binary.LittleEndian, n.Transform[:])
	}

	putU32(&meshes, uint32(len(f.Meshes)))
	for i := range f.Meshes {
		m := &f.Meshes[i]
		putString(&meshes, m.Name)
		putF32s(&meshes, m.Positions)
		putF32s(&meshes, m.Normals)
		putU32s(&meshes, m.Indices)
	}

	putU32(&effects, uint32(len(f.Effects)))
	for i := range f.Effects {
		e := &f.Effects[i]
		putString(&effects, e.Name)
		putString(&effects, e.Vertex)
		putString(&effects, e.Fragment)
	}

	length := 3*4 + 3*(2*4) + nodes.Len() + meshes.Len() + effects.Len()
	h := header{magic, version, uint32(length)}
	if err := binary.Write(w, binary.LittleEndian, h[:]); err != nil {
		return err
	}
	for _, c := range []struct {
		typ uint32
		buf *bytes.Buffer
	}{
		{typeNodes, &nodes},
		{typeMeshes, &meshes},
		{typeEffects, &effects},
	} {
		ch := chunk{c.typ, uint32(c.buf.Len())}
		if err := binary.Write(w, binary.LittleEndian, ch[:]); err != nil {
			return err
		}
		if _, err := w.Write(c.buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

type reader struct {
	r   io.Reader
	err error
}

func (d *reader) u32() (v uint32) {
	if d.err != nil {
		return
	}
	var b [4]byte
	_, d.err = io.ReadFull(d.r, b[:])
	return binary.LittleEndian.Uint32(b[:])
}

func (d *reader) str() string {
	n := d.u32()
	if d.err != nil {
		return ""
	}
	if n > 1<<24 {
		d.err = newErr("unreasonable string length")
		return ""
	}
	b := make([]byte, n)
	_, d.err = io.ReadFull(d.r, b)
	return string(b)
}

func (d *reader) f32s() []float32 {
	n := d.u32()
	if d.err != nil || n == 0 {
		return nil
	}
	if n > 1<<24 {
		d.err = newErr("unreasonable array length")
		return nil
	}
	fs := make([]float32, n)
	d.err = binary.Read(d.r, binary.LittleEndian, fs)
	return fs
}

func (d *reader) u32s() []uint32 {
	n := d.u32()
	if d.err != nil || n == 0 {
		return nil
	}
	if n > 1<<24 {
		d.err = newErr("unreasonable array length")
		return nil
	}
	vs := make([]uint32, n)
	d.err = binary.Read(d.r, binary.LittleEndian, vs)
	return vs
}

// Decode decodes r into a new File instance.
func Decode(r io.Reader) (*File, error) {
	if !IsRBF(r) {
		return nil, newErr("not a scene/resource file")
	}
	var f File
	d := &reader{r: r}
	for i := 0; i < 3; i++ {
		typ := d.u32()
		d.u32() // Chunk length; framing only.
		if d.err != nil {
			return nil, d.err
		}
		switch typ {
		case typeNodes:
			cnt := d.u32()
			for j := uint32(0); j < cnt && d.err == nil; j++ {
				var n Node
				n.Name = d.str()
				n.Parent = int32(d.u32())
				n.Mesh = int32(d.u32())
				n.Effect = int32(d.u32())
				for k := range n.Transform {
					n.Transform[k] = math.Float32frombits(d.u32())
				}
				f.Nodes = append(f.Nodes, n)
			}
		case typeMeshes:
			cnt := d.u32()
			for j := uint32(0); j < cnt && d.err == nil; j++ {
				var m Mesh
				m.Name = d.str()
				m.Positions = d.f32s()
				m.Normals = d.f32s()
				m.Indices = d.u32s()
				f.Meshes = append(f.Meshes, m)
			}
		case typeEffects:
			cnt := d.u32()
			for j := uint32(0); j < cnt && d.err == nil; j++ {
				var e Effect
				e.Name = d.str()
				e.Vertex = d.str()
				e.Fragment = d.str()
				f.Effects = append(f.Effects, e)
			}
		default:
			return nil, newErr("invalid chunk type")
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	return &f, nil
}
