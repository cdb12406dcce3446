// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package export implements the scene translation pipeline:
// traversal of the host scene into the IR, transform and
// modifier resolution, bridging into the native framework,
// validation and serialization. The pipeline is synchronous
// and all-or-nothing: a fatal error leaves any previous
// export at the destination path untouched.
package export

import (
	"fmt"

	"github.com/gviegas/ramex/host"
	"github.com/gviegas/ramex/internal/log"
	"github.com/gviegas/ramex/ramses"
)

// Warning is a non-fatal notice surfaced to the user, e.g.
// an unsupported object that was skipped.
type Warning struct {
	Object string
	Reason string
}

// String implements fmt.Stringer.
func (w Warning) String() string { return w.Object + ": " + w.Reason }

// EntityError reports a native-layer rejection, identifying
// the IR entity that failed to translate.
type EntityError struct {
	Entity string
	Err    error
}

// Error implements error.
func (e *EntityError) Error() string {
	return "export: native layer rejected " + e.Entity + ": " + e.Err.Error()
}

// Unwrap returns the underlying rejection.
func (e *EntityError) Unwrap() error { return e.Err }

// Options selects per-export behavior.
type Options struct {
	// ShaderDirs maps object names to directories holding
	// custom GLSL for those objects. Objects not listed get
	// the default effect.
	ShaderDirs map[string]string

	// Technique selects the technique within each shader
	// directory's config. Empty means "default".
	Technique string
}

// Exporter drives one or more export runs against a native
// framework.
type Exporter struct {
	fw  ramses.Framework
	log *log.Logger
}

// New creates an exporter. A nil logger disables logging.
func New(fw ramses.Framework, lg *log.Logger) *Exporter {
	if lg == nil {
		lg = log.Nop()
	}
	return &Exporter{fw: fw, log: lg}
}

// Export translates sc and writes the scene/resource file to
// path. It returns one warning per skipped host object.
// On error, nothing is written.
func (e *Exporter) Export(sc host.Scene, path string, opts *Options) ([]Warning, error) {
	if opts == nil {
		opts = &Options{}
	}
	e.log.Debugw("extracting scene", "scene", sc.Name())
	graph, pool, warns, err := Extract(sc, e.log)
	if err != nil {
		return warns, err
	}
	for _, w := range warns {
		e.log.Warnw("object skipped", "object", w.Object, "reason", w.Reason)
	}

	native := e.fw.CreateScene(sc.Name())
	if err := bridge(native, graph, pool, opts); err != nil {
		return warns, err
	}
	if err := native.Validate(); err != nil {
		return warns, fmt.Errorf("export: scene failed validation: %w", err)
	}
	if err := native.Save(path); err != nil {
		return warns, fmt.Errorf("export: cannot write %s: %w", path, err)
	}
	e.log.Infow("export complete",
		"scene", sc.Name(),
		"path", path,
		"nodes", graph.Len(),
		"meshes", pool.Len(),
		"skipped", len(warns),
	)
	return warns, nil
}

// Check runs the pipeline up to and including validation
// without writing any output.
func Check(sc host.Scene, lg *log.Logger) ([]Warning, error) {
	graph, pool, warns, err := Extract(sc, lg)
	if err != nil {
		return warns, err
	}
	native := ramses.New().CreateScene(sc.Name())
	if err := bridge(native, graph, pool, &Options{}); err != nil {
		return warns, err
	}
	if err := native.Validate(); err != nil {
		return warns, fmt.Errorf("export: scene failed validation: %w", err)
	}
	return warns, nil
}
