// Package gfxtest provides a graphics context that records every call
// instead of talking to a GPU.
package gfxtest

import (
	"fmt"
	"sync"

	"github.com/devblok/helix/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded context call
type Call struct {
	Name string
	Args []interface{}
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Recorder implements gfx.Context. Compile and link results can be
// forced through the Fail fields.
type Recorder struct {
	Width, Height int

	// FailCompile makes compilation of the given stage fail with the log
	FailCompile map[gfx.ShaderType]string

	// FailLink makes every link fail with this log when not empty
	FailLink string

	mutex    sync.Mutex
	calls    []Call
	next     uint32
	stages   map[gfx.Shader]gfx.ShaderType
	sources  map[gfx.Shader]string
	attached map[gfx.ProgramHandle][]gfx.Shader
	buffers  map[gfx.Buffer][]float32
	bound    gfx.Buffer
}

// NewRecorder creates a Recorder with the given drawable size
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		Width:       width,
		Height:      height,
		FailCompile: make(map[gfx.ShaderType]string),
		stages:      make(map[gfx.Shader]gfx.ShaderType),
		sources:     make(map[gfx.Shader]string),
		attached:    make(map[gfx.ProgramHandle][]gfx.Shader),
		buffers:     make(map[gfx.Buffer][]float32),
	}
}

func (r *Recorder) record(name string, args ...interface{}) {
	r.calls = append(r.calls, Call{Name: name, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]Call(nil), r.calls...)
}

// Count returns how many times the named call was recorded
func (r *Recorder) Count(name string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.count(name)
}

// Reset forgets the recorded calls, created objects stay
func (r *Recorder) Reset() {
	r.mutex.Lock()
	r.calls = nil
	r.mutex.Unlock()
}

// LinkedSources returns the vertex and fragment sources attached to
// the program, in attach order.
func (r *Recorder) LinkedSources(p gfx.ProgramHandle) []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	var sources []string
	for _, s := range r.attached[p] {
		sources = append(sources, r.sources[s])
	}
	return sources
}

// BufferContents returns the data uploaded to the buffer
func (r *Recorder) BufferContents(b gfx.Buffer) []float32 {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.buffers[b]
}

// CreateShader implements interface
func (r *Recorder) CreateShader(t gfx.ShaderType) gfx.Shader {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	s := gfx.Shader(r.handle())
	r.stages[s] = t
	r.record("CreateShader", t)
	return s
}

// ShaderSource implements interface
func (r *Recorder) ShaderSource(s gfx.Shader, source string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.sources[s] = source
	r.record("ShaderSource", s, source)
}

// CompileShader implements interface
func (r *Recorder) CompileShader(s gfx.Shader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("CompileShader", s, r.sources[s])
}

// ShaderStatus implements interface
func (r *Recorder) ShaderStatus(s gfx.Shader) (bool, string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if log, ok := r.FailCompile[r.stages[s]]; ok {
		return false, log
	}
	return true, ""
}

// DeleteShader implements interface
func (r *Recorder) DeleteShader(s gfx.Shader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("DeleteShader", s)
}

// CreateProgram implements interface
func (r *Recorder) CreateProgram() gfx.ProgramHandle {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	p := gfx.ProgramHandle(r.handle())
	r.record("CreateProgram")
	return p
}

// AttachShader implements interface
func (r *Recorder) AttachShader(p gfx.ProgramHandle, s gfx.Shader) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.attached[p] = append(r.attached[p], s)
	r.record("AttachShader", p, s)
}

// LinkProgram implements interface
func (r *Recorder) LinkProgram(p gfx.ProgramHandle) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("LinkProgram", p)
}

// ProgramStatus implements interface
func (r *Recorder) ProgramStatus(gfx.ProgramHandle) (bool, string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.FailLink != "" {
		return false, r.FailLink
	}
	return true, ""
}

// UseProgram implements interface
func (r *Recorder) UseProgram(p gfx.ProgramHandle) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("UseProgram", p)
}

// AttribLocation implements interface, locations are handed out in
// lookup order starting at 0.
func (r *Recorder) AttribLocation(p gfx.ProgramHandle, name string) gfx.AttribLocation {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("AttribLocation", p, name)
	return gfx.AttribLocation(r.count("AttribLocation") - 1)
}

// UniformLocation implements interface
func (r *Recorder) UniformLocation(p gfx.ProgramHandle, name string) gfx.UniformLocation {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("UniformLocation", p, name)
	return gfx.UniformLocation(r.count("UniformLocation") - 1)
}

func (r *Recorder) count(name string) int {
	var n int
	for _, c := range r.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// CreateBuffer implements interface
func (r *Recorder) CreateBuffer() gfx.Buffer {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	b := gfx.Buffer(r.handle())
	r.record("CreateBuffer")
	return b
}

// BindBuffer implements interface
func (r *Recorder) BindBuffer(b gfx.Buffer) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.bound = b
	r.record("BindBuffer", b)
}

// BufferData implements interface
func (r *Recorder) BufferData(data []float32, usage gfx.BufferUsage) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.buffers[r.bound] = append([]float32(nil), data...)
	r.record("BufferData", r.bound, len(data), usage)
}

// VertexAttribPointer implements interface
func (r *Recorder) VertexAttribPointer(loc gfx.AttribLocation, size int, normalize bool, stride, offset int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("VertexAttribPointer", loc, size, normalize, stride, offset, r.bound)
}

// EnableVertexAttribArray implements interface
func (r *Recorder) EnableVertexAttribArray(loc gfx.AttribLocation) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("EnableVertexAttribArray", loc)
}

// UniformMatrix4fv implements interface
func (r *Recorder) UniformMatrix4fv(loc gfx.UniformLocation, m glm.Mat4) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("UniformMatrix4fv", loc, m)
}

// DrawArrays implements interface
func (r *Recorder) DrawArrays(mode gfx.DrawMode, first, count int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("DrawArrays", mode, first, count)
}

// Viewport implements interface
func (r *Recorder) Viewport(x, y, width, height int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("Viewport", x, y, width, height)
}

// ClearColor implements interface
func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("ClearColor", red, green, blue, alpha)
}

// ClearDepth implements interface
func (r *Recorder) ClearDepth(d float32) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("ClearDepth", d)
}

// EnableDepthTest implements interface
func (r *Recorder) EnableDepthTest() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("EnableDepthTest")
}

// SetDepthFunc implements interface
func (r *Recorder) SetDepthFunc(f gfx.DepthFunc) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("SetDepthFunc", f)
}

// Clear implements interface
func (r *Recorder) Clear(mask gfx.ClearMask) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.record("Clear", mask)
}

// Size implements interface
func (r *Recorder) Size() (int, int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.Width, r.Height
}

// SetSize changes the drawable size, as a window resize would
func (r *Recorder) SetSize(width, height int) {
	r.mutex.Lock()
	r.Width, r.Height = width, height
	r.mutex.Unlock()
}
