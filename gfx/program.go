package gfx

import "fmt"

// CompileError is returned when a shader stage fails to compile
type CompileError struct {
	Stage ShaderType
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader error: %s", e.Stage, e.Log)
}

// LinkError is returned when a program fails to link
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("linker error: %s", e.Log)
}

// Program is a linked program bundled with the binding slots
// resolved right after linking. Locations never change afterwards.
type Program struct {
	Handle     ProgramHandle
	Attributes map[string]AttribLocation
	Uniforms   map[string]UniformLocation
}

// NewProgram compiles both stages, links them and resolves the given
// attribute and uniform locations.
func NewProgram(gl Context, vertex, fragment string, attributes, uniforms []string) (*Program, error) {
	vshader, err := compileShader(gl, VertexShaderType, vertex)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vshader)

	fshader, err := compileShader(gl, FragmentShaderType, fragment)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fshader)

	handle := gl.CreateProgram()
	gl.AttachShader(handle, vshader)
	gl.AttachShader(handle, fshader)
	gl.LinkProgram(handle)
	if ok, log := gl.ProgramStatus(handle); !ok {
		return nil, &LinkError{Log: log}
	}

	prg := &Program{
		Handle:     handle,
		Attributes: make(map[string]AttribLocation, len(attributes)),
		Uniforms:   make(map[string]UniformLocation, len(uniforms)),
	}
	for _, a := range attributes {
		prg.Attributes[a] = gl.AttribLocation(handle, a)
	}
	for _, u := range uniforms {
		prg.Uniforms[u] = gl.UniformLocation(handle, u)
	}
	return prg, nil
}

func compileShader(gl Context, stage ShaderType, source string) (Shader, error) {
	shader := gl.CreateShader(stage)
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)
	if ok, log := gl.ShaderStatus(shader); !ok {
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return shader, nil
}
