// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package export

import (
	"errors"
	"fmt"

	"github.com/gviegas/ramex/host"
	"github.com/gviegas/ramex/internal/log"
	"github.com/gviegas/ramex/ir"
)

// Extract walks the host scene and builds the IR graph plus
// the deduplicated mesh pool, with world transforms resolved.
// Unsupported objects are skipped, one warning each; their
// children reattach to the nearest translated ancestor so
// hierarchy order stays deterministic. A skipped object's
// local transform does not carry over to the reattached
// children.
func Extract(sc host.Scene, lg *log.Logger) (*ir.Graph, *ir.Pool, []Warning, error) {
	if lg == nil {
		lg = log.Nop()
	}
	graph := ir.NewGraph(sc.Name())
	pool := ir.NewPool()
	var warns []Warning

	objs := sc.Objects()
	nodes := make(map[host.Object]*ir.Node, len(objs))
	order := make([]host.Object, 0, len(objs))

	for _, obj := range objs {
		switch obj.Kind() {
		case host.KMesh:
			n, err := translateMesh(obj, pool)
			if err != nil {
				return nil, nil, warns, err
			}
			nodes[obj] = n
			order = append(order, obj)
			lg.Debugw("translated object", "object", obj.Name(), "kind", obj.Kind().String())
		default:
			warns = append(warns, Warning{
				Object: obj.Name(),
				Reason: "unsupported object type " + obj.Kind().String() + "; skipped",
			})
		}
	}

	// Parent links may reference objects in any position of
	// the host list, so attach after every node exists.
	for _, obj := range order {
		var parent *ir.Node
		for p, i := obj.Parent(), 0; p != nil && i < len(objs); p, i = p.Parent(), i+1 {
			if n, ok := nodes[p]; ok {
				parent = n
				break
			}
		}
		graph.Insert(nodes[obj], parent)
	}

	graph.Resolve()
	return graph, pool, warns, nil
}

// translateMesh builds an IR mesh node and populates the pool
// with the object's baked geometry.
func translateMesh(obj host.Object, pool *ir.Pool) (*ir.Node, error) {
	n := ir.NewNode(obj.Name())
	n.Kind = ir.NMesh
	n.Translation = obj.Translation()
	n.Rotation = obj.Rotation()
	n.Scale = obj.Scale()
	n.Obj = obj

	m := obj.Mesh()
	if m == nil {
		return nil, errors.New("export: object " + obj.Name() + " has no mesh data")
	}
	mods := obj.Modifiers()
	key := ir.Key(m.ID(), mods)
	err := pool.Add(key, func() (*ir.MeshData, error) {
		d, err := ir.Bake(ir.FromHost(m), mods)
		if err != nil {
			return nil, fmt.Errorf("export: object %s: %w", obj.Name(), err)
		}
		d.Name = key
		return d, nil
	})
	if err != nil {
		return nil, err
	}
	n.Mesh = key
	return n, nil
}
