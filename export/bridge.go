// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package export

import (
	"github.com/gviegas/ramex/effect"
	"github.com/gviegas/ramex/ir"
	"github.com/gviegas/ramex/ramses"
)

// bridge replays the IR into native scene-construction calls:
// one pool entry per CreateMesh, one node per CreateNode plus
// a transform set, one CreateEffect per distinct shader pair.
// A rejection aborts the export with the offending entity.
func bridge(sc ramses.Scene, graph *ir.Graph, pool *ir.Pool, opts *Options) error {
	// Meshes first, in pool order, so the resource layout of
	// the output is a function of scene content alone.
	meshes := make(map[string]ramses.Mesh, pool.Len())
	var meshErr error
	pool.Each(func(key string, d *ir.MeshData) {
		if meshErr != nil {
			return
		}
		m, err := sc.CreateMesh(d.Name, d.Positions, d.Normals, d.Indices)
		if err != nil {
			meshErr = &EntityError{Entity: "mesh " + key, Err: err}
			return
		}
		meshes[key] = m
	})
	if meshErr != nil {
		return meshErr
	}

	eff := newEffectCache(sc, opts)
	nodes := make(map[*ir.Node]ramses.Node, graph.Len())
	var err error
	graph.Walk(func(n *ir.Node) bool {
		var nat ramses.Node
		if nat, err = sc.CreateNode(n.Name); err != nil {
			err = &EntityError{Entity: "node " + n.Name, Err: err}
			return false
		}
		nodes[n] = nat
		if err = sc.SetTransform(nat, n.Local()); err != nil {
			err = &EntityError{Entity: "node " + n.Name, Err: err}
			return false
		}
		// Preorder traversal: the parent's handle exists by
		// the time any child is visited.
		if p := n.Parent(); p != nil {
			if err = sc.SetParent(nat, nodes[p]); err != nil {
				err = &EntityError{Entity: "node " + n.Name, Err: err}
				return false
			}
		}
		if n.Kind == ir.NMesh {
			var e ramses.Effect
			if e, err = eff.forObject(n.Name); err != nil {
				return false
			}
			if err = sc.BindMesh(nat, meshes[n.Mesh], e); err != nil {
				err = &EntityError{Entity: "node " + n.Name, Err: err}
				return false
			}
		}
		return true
	})
	return err
}

// effectCache deduplicates native effects by shader source,
// so N objects sharing GLSL yield one resource.
type effectCache struct {
	sc    ramses.Scene
	opts  *Options
	bySrc map[string]ramses.Effect
}

func newEffectCache(sc ramses.Scene, opts *Options) *effectCache {
	return &effectCache{sc: sc, opts: opts, bySrc: make(map[string]ramses.Effect)}
}

func (c *effectCache) forObject(name string) (ramses.Effect, error) {
	var fx *effect.Effect
	if dir, ok := c.opts.ShaderDirs[name]; ok {
		technique := c.opts.Technique
		if technique == "" {
			technique = "default"
		}
		var err error
		if fx, err = effect.LoadDir(dir, technique); err != nil {
			return ramses.Nil, err
		}
	} else {
		fx = effect.Default()
	}
	src := fx.Vertex + "\x00" + fx.Fragment
	if e, ok := c.bySrc[src]; ok {
		return e, nil
	}
	e, err := c.sc.CreateEffect(fx.Name, fx.Vertex, fx.Fragment)
	if err != nil {
		return ramses.Nil, &EntityError{Entity: "effect " + fx.Name, Err: err}
	}
	c.bySrc[src] = e
	return e, nil
}
