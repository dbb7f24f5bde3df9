// Package glr implements gfx.Context on top of OpenGL 2.1,
// the desktop profile that accepts the same GLSL as WebGL 1.
package glr

import (
	"errors"
	"strings"

	"github.com/devblok/helix/gfx"
	"github.com/go-gl/gl/v2.1/gl"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Sizer reports the drawable size of the surface the context renders to
type Sizer interface {
	Size() (width, height int)
}

// New initialises the GL function pointers for the context that is
// current on the calling thread. Must be called on the rendering thread.
func New(surface Sizer) (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.New("gl.Init(): " + err.Error())
	}
	return &Context{surface: surface}, nil
}

// Context is a gfx.Context bound to the current OpenGL context
type Context struct {
	surface Sizer
}

// Info returns vendor, renderer and version strings of the driver
func (c *Context) Info() (vendor, renderer, version string) {
	return gl.GoStr(gl.GetString(gl.VENDOR)),
		gl.GoStr(gl.GetString(gl.RENDERER)),
		gl.GoStr(gl.GetString(gl.VERSION))
}

// CreateShader implements interface
func (c *Context) CreateShader(t gfx.ShaderType) gfx.Shader {
	switch t {
	case gfx.VertexShaderType:
		return gfx.Shader(gl.CreateShader(gl.VERTEX_SHADER))
	case gfx.FragmentShaderType:
		return gfx.Shader(gl.CreateShader(gl.FRAGMENT_SHADER))
	}
	return 0
}

// ShaderSource implements interface
func (c *Context) ShaderSource(s gfx.Shader, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csources, nil)
	free()
}

// CompileShader implements interface
func (c *Context) CompileShader(s gfx.Shader) {
	gl.CompileShader(uint32(s))
}

// ShaderStatus implements interface
func (c *Context) ShaderStatus(s gfx.Shader) (bool, string) {
	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(s), logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

// DeleteShader implements interface
func (c *Context) DeleteShader(s gfx.Shader) {
	gl.DeleteShader(uint32(s))
}

// CreateProgram implements interface
func (c *Context) CreateProgram() gfx.ProgramHandle {
	return gfx.ProgramHandle(gl.CreateProgram())
}

// AttachShader implements interface
func (c *Context) AttachShader(p gfx.ProgramHandle, s gfx.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

// LinkProgram implements interface
func (c *Context) LinkProgram(p gfx.ProgramHandle) {
	gl.LinkProgram(uint32(p))
}

// ProgramStatus implements interface
func (c *Context) ProgramStatus(p gfx.ProgramHandle) (bool, string) {
	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(p), logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

// UseProgram implements interface
func (c *Context) UseProgram(p gfx.ProgramHandle) {
	gl.UseProgram(uint32(p))
}

// AttribLocation implements interface
func (c *Context) AttribLocation(p gfx.ProgramHandle, name string) gfx.AttribLocation {
	return gfx.AttribLocation(gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00")))
}

// UniformLocation implements interface
func (c *Context) UniformLocation(p gfx.ProgramHandle, name string) gfx.UniformLocation {
	return gfx.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

// CreateBuffer implements interface
func (c *Context) CreateBuffer() gfx.Buffer {
	var b uint32
	gl.GenBuffers(1, &b)
	return gfx.Buffer(b)
}

var bufferUsages = map[gfx.BufferUsage]uint32{
	gfx.StaticDraw: gl.STATIC_DRAW,
}

var drawModes = map[gfx.DrawMode]uint32{
	gfx.TriangleStrip: gl.TRIANGLE_STRIP,
}

// BindBuffer implements interface
func (c *Context) BindBuffer(b gfx.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
}

// BufferData implements interface
func (c *Context) BufferData(data []float32, usage gfx.BufferUsage) {
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), bufferUsages[usage])
}

// VertexAttribPointer implements interface
func (c *Context) VertexAttribPointer(loc gfx.AttribLocation, size int, normalize bool, stride, offset int) {
	gl.VertexAttribPointer(uint32(loc), int32(size), gl.FLOAT, normalize, int32(stride), gl.PtrOffset(offset))
}

// EnableVertexAttribArray implements interface
func (c *Context) EnableVertexAttribArray(loc gfx.AttribLocation) {
	gl.EnableVertexAttribArray(uint32(loc))
}

// UniformMatrix4fv implements interface
func (c *Context) UniformMatrix4fv(loc gfx.UniformLocation, m glm.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, &m[0])
}

// DrawArrays implements interface
func (c *Context) DrawArrays(mode gfx.DrawMode, first, count int) {
	gl.DrawArrays(drawModes[mode], int32(first), int32(count))
}

// Viewport implements interface
func (c *Context) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

// ClearColor implements interface
func (c *Context) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// ClearDepth implements interface
func (c *Context) ClearDepth(d float32) {
	gl.ClearDepth(float64(d))
}

// EnableDepthTest implements interface
func (c *Context) EnableDepthTest() {
	gl.Enable(gl.DEPTH_TEST)
}

// SetDepthFunc implements interface
func (c *Context) SetDepthFunc(f gfx.DepthFunc) {
	switch f {
	case gfx.LessEqual:
		gl.DepthFunc(gl.LEQUAL)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

// Clear implements interface
func (c *Context) Clear(mask gfx.ClearMask) {
	var bits uint32
	if mask&gfx.ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gfx.DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

// Size implements interface
func (c *Context) Size() (int, int) {
	return c.surface.Size()
}
