package core_test

import (
	"testing"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/gfx"
)

func TestShaderTypeFromName(t *testing.T) {
	cases := map[string]gfx.ShaderType{
		"assets/datafiles/vsource.dat": gfx.VertexShaderType,
		"assets/datafiles/fsource.dat": gfx.FragmentShaderType,
		"shaders/triangle.vert":        gfx.VertexShaderType,
		"shaders/triangle.frag.spv":    gfx.FragmentShaderType,
		"shaders/triangle.vert.spv":    gfx.VertexShaderType,
		"textures/bricks.png":          gfx.UnknownShaderType,
		"":                             gfx.UnknownShaderType,
	}
	for name, expected := range cases {
		if got := core.ShaderTypeFromName(name); got != expected {
			t.Errorf("%q: expected %s, got %s", name, expected, got)
		}
	}
}
