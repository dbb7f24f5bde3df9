package core

import (
	"path"
	"strings"

	"github.com/devblok/helix/gfx"
)

// ShaderTypeFromName guesses the shader stage from a resource name.
// Compiled and source suffixes (.vert, .frag, optionally followed by .spv)
// are recognised, as well as the vsource/fsource data file names.
func ShaderTypeFromName(name string) gfx.ShaderType {
	base := strings.TrimSuffix(path.Base(name), ".spv")
	nodes := strings.Split(base, ".")

	for _, n := range nodes {
		switch n {
		case "vert", "vsource":
			return gfx.VertexShaderType
		case "frag", "fsource":
			return gfx.FragmentShaderType
		}
	}
	return gfx.UnknownShaderType
}
