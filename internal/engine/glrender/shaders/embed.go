// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BatchVertexShader transforms, warps and forwards every batch vertex.
//
//go:embed batch.vert
var BatchVertexShader string

// BatchFragmentShader applies textures, the light map and per-pixel lights.
//
//go:embed batch.frag
var BatchFragmentShader string
