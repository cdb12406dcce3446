// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package effect provides the GLSL sources bound to exported
// mesh nodes. Meshes get a fixed default effect unless the
// export requests custom GLSL loaded from a shader directory.
package effect

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const prefix = "effect: "

// Effect is a vertex/fragment shader pair.
type Effect struct {
	Name     string
	Vertex   string
	Fragment string
}

// Default vertex shader. Transforms positions by the usual
// model/view/projection chain.
const defaultVertex = `#version 300 es

in vec3 a_position;
uniform highp mat4 u_ModelMatrix;
uniform highp mat4 u_ViewMatrix;
uniform highp mat4 u_ProjectionMatrix;

void main()
{
	gl_Position = u_ProjectionMatrix * u_ViewMatrix * u_ModelMatrix * vec4(a_position.xyz, 1.0);
}
`

// Default fragment shader. Flat white.
const defaultFragment = `#version 300 es

precision mediump float;
out vec4 FragColor;

void main(void)
{
	FragColor = vec4(1.0, 1.0, 1.0, 1.0);
}
`

// Default returns the effect used when no custom GLSL is
// requested.
func Default() *Effect {
	return &Effect{
		Name:     "default",
		Vertex:   defaultVertex,
		Fragment: defaultFragment,
	}
}

// Config describes a shader directory. It is read from a
// config.txt JSON file next to the GLSL sources.
type Config struct {
	Techniques   map[string]Technique `json:"techniques"`
	VertexFormat map[string]string    `json:"vertexformat"`
}

// Technique names the shader files of one rendering technique.
type Technique struct {
	Shaders struct {
		Vertex   string `json:"vertex"`
		Fragment string `json:"fragment"`
	} `json:"shaders"`
}

// DefaultConfig returns the config assumed when a shader
// directory carries none.
func DefaultConfig() *Config {
	return &Config{
		Techniques: map[string]Technique{"default": {}},
		VertexFormat: map[string]string{
			"position": "a_position",
			"normal":   "",
			"texcoord": "",
		},
	}
}

// validate fails on keys outside the known set. Technique
// names are user-defined and accepted as-is.
func (c *Config) validate(raw map[string]json.RawMessage) error {
	for key := range raw {
		switch key {
		case "techniques", "vertexformat":
		default:
			return errors.New(prefix + "unknown key in shader config: " + key)
		}
	}
	if c.VertexFormat != nil {
		for key := range c.VertexFormat {
			switch key {
			case "position", "normal", "texcoord":
			default:
				return errors.New(prefix + "unknown vertexformat key in shader config: " + key)
			}
		}
	}
	return nil
}

// loadConfig reads and validates dir's config.txt.
func loadConfig(dir string) (*Config, error) {
	b, err := os.ReadFile(filepath.Join(dir, "config.txt"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf(prefix+"cannot decode shader config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf(prefix+"cannot decode shader config: %w", err)
	}
	if err := cfg.validate(raw); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDir loads custom GLSL for the named technique from dir.
// The directory's config.txt selects the file names; the
// sources are read from <name>.vert and <name>.frag.
func LoadDir(dir, technique string) (*Effect, error) {
	cfg, err := loadConfig(dir)
	if err != nil {
		return nil, err
	}
	t, ok := cfg.Techniques[technique]
	if !ok {
		return nil, errors.New(prefix + "no such technique in shader config: " + technique)
	}
	if t.Shaders.Vertex == "" || t.Shaders.Fragment == "" {
		return nil, errors.New(prefix + "technique " + technique + " names no shader files")
	}
	vert, err := os.ReadFile(filepath.Join(dir, t.Shaders.Vertex+".vert"))
	if err != nil {
		return nil, fmt.Errorf(prefix+"cannot read vertex shader: %w", err)
	}
	frag, err := os.ReadFile(filepath.Join(dir, t.Shaders.Fragment+".frag"))
	if err != nil {
		return nil, fmt.Errorf(prefix+"cannot read fragment shader: %w", err)
	}
	return &Effect{
		Name:     filepath.Base(dir) + "/" + technique,
		Vertex:   string(vert),
		Fragment: string(frag),
	}, nil
}
