// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package ir

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/ramex/host"
)

const prefix = "ir: "

// MeshData is an indexed triangle list plus optional
// per-vertex normals.
type MeshData struct {
	Name      string
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// clone returns a deep copy of m.
func (m *MeshData) clone() *MeshData {
	c := &MeshData{
		Name:      m.Name,
		Positions: make([]mgl32.Vec3, len(m.Positions)),
		Indices:   make([]uint32, len(m.Indices)),
	}
	copy(c.Positions, m.Positions)
	copy(c.Indices, m.Indices)
	if m.Normals != nil {
		c.Normals = make([]mgl32.Vec3, len(m.Normals))
		copy(c.Normals, m.Normals)
	}
	return c
}

// FromHost copies a host mesh data-block into the IR.
func FromHost(m host.Mesh) *MeshData {
	d := &MeshData{Name: m.ID()}
	d.Positions = append(d.Positions, m.Positions()...)
	d.Normals = append(d.Normals, m.Normals()...)
	d.Indices = append(d.Indices, m.Indices()...)
	return d
}

// Key computes the resource pool key for a host mesh under a
// given modifier stack. Meshes sharing a data-block and a
// byte-identical stack share one pool entry; any difference
// in the stack forks a new entry.
func Key(meshID string, mods []host.Modifier) string {
	if len(mods) == 0 {
		return meshID
	}
	h := sha256.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for _, m := range mods {
		put(uint64(m.Kind))
		for _, a := range m.Axis {
			if a {
				put(1)
			} else {
				put(0)
			}
		}
		put(uint64(m.Count))
		for _, f := range m.Offset {
			put(uint64(math.Float32bits(f)))
		}
	}
	return meshID + "@" + hex.EncodeToString(h.Sum(nil))[:16]
}

// Pool is the deduplicated mesh resource collection for one
// export run. Entries keep insertion order so output layout
// is deterministic.
type Pool struct {
	keys  []string
	byKey map[string]*MeshData
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{byKey: make(map[string]*MeshData)}
}

// Add stores the entry built by build under key, unless the
// key is already present. The build function runs at most
// once per key.
func (p *Pool) Add(key string, build func() (*MeshData, error)) error {
	if _, ok := p.byKey[key]; ok {
		return nil
	}
	d, err := build()
	if err != nil {
		return err
	}
	p.keys = append(p.keys, key)
	p.byKey[key] = d
	return nil
}

// Get returns the entry stored under key, or nil.
func (p *Pool) Get(key string) *MeshData { return p.byKey[key] }

// Len returns the number of entries.
func (p *Pool) Len() int { return len(p.keys) }

// Each visits entries in insertion order.
func (p *Pool) Each(f func(key string, d *MeshData)) {
	for _, k := range p.keys {
		f(k, p.byKey[k])
	}
}

// Bake applies a modifier stack to base in authoring order.
// The input is never mutated; topology-changing modifiers
// produce fresh geometry so shared data-blocks stay intact.
func Bake(base *MeshData, mods []host.Modifier) (*MeshData, error) {
	d := base.clone()
	for _, m := range mods {
		var err error
		switch m.Kind {
		case host.MMirror:
			d, err = mirror(d, m.Axis)
		case host.MArray:
			d, err = array(d, m.Count, m.Offset)
		default:
			err = errors.New(prefix + "unknown modifier kind")
		}
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}
