// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package ir

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// mirror duplicates the geometry across each enabled axis in
// turn, X then Y then Z. Mirrored triangles have their winding
// reversed so face orientation is preserved.
func mirror(d *MeshData, axis [3]bool) (*MeshData, error) {
	if !axis[0] && !axis[1] && !axis[2] {
		return nil, errors.New(prefix + "mirror modifier with no axis")
	}
	for ax := 0; ax < 3; ax++ {
		if !axis[ax] {
			continue
		}
		n := uint32(len(d.Positions))
		for _, p := range d.Positions[:n] {
			p[ax] = -p[ax]
			d.Positions = append(d.Positions, p)
		}
		if d.Normals != nil {
			for _, v := range d.Normals[:n] {
				v[ax] = -v[ax]
				d.Normals = append(d.Normals, v)
			}
		}
		idx := d.Indices
		for i := 0; i+3 <= len(idx); i += 3 {
			// Swap two indices to reverse winding.
			d.Indices = append(d.Indices, idx[i]+n, idx[i+2]+n, idx[i+1]+n)
		}
	}
	return d, nil
}

// array replicates the geometry count times, offsetting each
// copy by the accumulated per-element offset. The count
// includes the original, matching host semantics.
func array(d *MeshData, count int, offset mgl32.Vec3) (*MeshData, error) {
	if count < 1 {
		return nil, errors.New(prefix + "invalid array modifier count")
	}
	n := uint32(len(d.Positions))
	nidx := len(d.Indices)
	for c := 1; c < count; c++ {
		off := offset.Mul(float32(c))
		for _, p := range d.Positions[:n] {
			d.Positions = append(d.Positions, p.Add(off))
		}
		if d.Normals != nil {
			d.Normals = append(d.Normals, d.Normals[:n]...)
		}
		for _, i := range d.Indices[:nidx] {
			d.Indices = append(d.Indices, i+n*uint32(c))
		}
	}
	return d, nil
}
