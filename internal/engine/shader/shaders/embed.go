// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PhongVertexShader transforms vertices and forwards color, texcoord and normal.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader shades with a single point light.
//
//go:embed phong.frag
var PhongFragmentShader string
