// Package gfx defines the graphics context that renderers must implement
// and the program building blocks shared by every render object.
package gfx

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// ShaderType represents the stage a shader is compiled for
type ShaderType int

// Identifies shader objects with their stages
const (
	VertexShaderType ShaderType = iota
	FragmentShaderType
	UnknownShaderType
)

func (s ShaderType) String() string {
	switch s {
	case VertexShaderType:
		return "vertex"
	case FragmentShaderType:
		return "fragment"
	}
	return "unknown"
}

// Handles to objects living inside the graphics context.
type (
	Shader          uint32
	ProgramHandle   uint32
	Buffer          uint32
	AttribLocation  int32
	UniformLocation int32
)

// InvalidProgram is the handle of a program that failed to build.
const InvalidProgram ProgramHandle = 0

// DrawMode selects the primitive assembly for DrawArrays
type DrawMode int

// Supported primitive modes
const (
	TriangleStrip DrawMode = iota
)

// BufferUsage hints how often buffer contents change
type BufferUsage int

// Supported buffer usages
const (
	StaticDraw BufferUsage = iota
)

// ClearMask selects the targets cleared by Clear
type ClearMask int

// Clear targets, combine with |
const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// DepthFunc is the depth comparison used when depth testing is enabled
type DepthFunc int

// Depth comparisons
const (
	Less DepthFunc = iota
	LessEqual
)

// Context is the graphics context every render object draws with.
// It is not safe for concurrent use, all calls must happen on the
// rendering thread.
type Context interface {
	CreateShader(ShaderType) Shader
	ShaderSource(Shader, string)
	CompileShader(Shader)

	// ShaderStatus reports whether compilation succeeded and the info log
	ShaderStatus(Shader) (bool, string)
	DeleteShader(Shader)

	CreateProgram() ProgramHandle
	AttachShader(ProgramHandle, Shader)
	LinkProgram(ProgramHandle)

	// ProgramStatus reports whether linking succeeded and the info log
	ProgramStatus(ProgramHandle) (bool, string)
	UseProgram(ProgramHandle)

	AttribLocation(ProgramHandle, string) AttribLocation
	UniformLocation(ProgramHandle, string) UniformLocation

	CreateBuffer() Buffer
	BindBuffer(Buffer)
	BufferData(data []float32, usage BufferUsage)
	VertexAttribPointer(loc AttribLocation, size int, normalize bool, stride, offset int)
	EnableVertexAttribArray(AttribLocation)
	UniformMatrix4fv(UniformLocation, glm.Mat4)
	DrawArrays(mode DrawMode, first, count int)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	ClearDepth(float32)
	EnableDepthTest()
	SetDepthFunc(DepthFunc)
	Clear(ClearMask)

	// Size returns the current drawable size in pixels
	Size() (width, height int)
}
