package model

import (
	"context"
	"errors"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/gfx"
	"github.com/devblok/helix/resource"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Binding slot names the shader sources are expected to declare
const (
	VertexPositionAttribute = "aVertexPosition"
	VertexColorAttribute    = "aVertexColor"
	ProjectionUniform       = "uProjectionMatrix"
	ModelViewUniform        = "uModelViewMatrix"
)

// ShapeOptions configures a Shape
type ShapeOptions struct {
	// VertexSource and FragmentSource are the resource ids of the shaders
	VertexSource   string
	FragmentSource string

	// Vertices of a triangle strip, defaults to Square
	Vertices []Vertex

	// Distance the shape is pushed away from the camera, defaults to 6
	Distance float32
}

// DefaultShapeOptions returns the colored square setup
func DefaultShapeOptions() ShapeOptions {
	return ShapeOptions{
		VertexSource:   "assets/datafiles/vsource.dat",
		FragmentSource: "assets/datafiles/fsource.dat",
		Vertices:       Square,
		Distance:       6,
	}
}

// NewShape creates a Shape whose shaders are fetched through loader.
// Program build failures are reported to alert, which may be nil.
func NewShape(loader *resource.Loader, alert core.Alerter, opts ShapeOptions) *Shape {
	defaults := DefaultShapeOptions()
	if opts.VertexSource == "" {
		opts.VertexSource = defaults.VertexSource
	}
	if opts.FragmentSource == "" {
		opts.FragmentSource = defaults.FragmentSource
	}
	if len(opts.Vertices) == 0 {
		opts.Vertices = defaults.Vertices
	}
	if opts.Distance == 0 {
		opts.Distance = defaults.Distance
	}

	return &Shape{
		loader:  loader,
		alert:   alert,
		options: opts,
		program: &gfx.Program{Handle: gfx.InvalidProgram},
	}
}

// Shape is a flat, vertex colored triangle strip spinning around
// the view axis. All methods must be called on the rendering thread.
type Shape struct {
	loader  *resource.Loader
	alert   core.Alerter
	options ShapeOptions

	state   State
	angle   float32
	program *gfx.Program

	positionBuffer gfx.Buffer
	colorBuffer    gfx.Buffer
}

// State returns the lifecycle stage
func (s *Shape) State() State {
	return s.state
}

// Angle returns the current rotation in radians
func (s *Shape) Angle() float32 {
	return s.angle
}

// Program returns the linked program handle, gfx.InvalidProgram
// until loaded or after a failure.
func (s *Shape) Program() gfx.ProgramHandle {
	return s.program.Handle
}

// Buffers returns the position and color vertex buffers
func (s *Shape) Buffers() (position, color gfx.Buffer) {
	return s.positionBuffer, s.colorBuffer
}

// Load implements Object. Both shader sources are fetched concurrently,
// the program is built once both arrived.
func (s *Shape) Load(ctx context.Context, gl gfx.Context, onReady func(Object)) error {
	if s.state != Uninitialized {
		return ErrAlreadyLoaded
	}
	s.state = Loading

	vertex := s.loader.Load(ctx, s.options.VertexSource, s.fetched)
	fragment := s.loader.Load(ctx, s.options.FragmentSource, s.fetched)

	resource.Join(s.loader.Dispatcher(), func(sources [][]byte) {
		s.build(gl, string(sources[0]), string(sources[1]), onReady)
	}, vertex, fragment)
	return nil
}

func (s *Shape) fetched(id string, payload []byte) {
	log.WithFields(log.Fields{
		"resource": id,
		"stage":    core.ShaderTypeFromName(id),
		"bytes":    len(payload),
	}).Debug("shader source fetched")
}

func (s *Shape) build(gl gfx.Context, vertex, fragment string, onReady func(Object)) {
	prg, err := gfx.NewProgram(gl, vertex, fragment,
		[]string{VertexPositionAttribute, VertexColorAttribute},
		[]string{ProjectionUniform, ModelViewUniform},
	)
	if err != nil {
		s.state = Failed
		s.program = &gfx.Program{Handle: gfx.InvalidProgram}
		log.WithError(err).Error("shape abandoned")

		title := "Unable to initialize the shader program"
		var compileErr *gfx.CompileError
		if errors.As(err, &compileErr) {
			title = "An error occurred compiling the shaders"
		}
		if s.alert != nil {
			s.alert.Alert(title, err.Error())
		}
		return
	}
	s.program = prg

	s.positionBuffer = gl.CreateBuffer()
	gl.BindBuffer(s.positionBuffer)
	gl.BufferData(Positions(s.options.Vertices), gfx.StaticDraw)

	s.colorBuffer = gl.CreateBuffer()
	gl.BindBuffer(s.colorBuffer)
	gl.BufferData(Colors(s.options.Vertices), gfx.StaticDraw)

	s.state = Ready
	if onReady != nil {
		onReady(s)
	}
}

// ModelView returns the current model-view matrix
func (s *Shape) ModelView() glm.Mat4 {
	return glm.Ident4().
		Mul4(glm.Translate3D(0, 0, -s.options.Distance)).
		Mul4(glm.HomogRotate3D(s.angle, glm.Vec3{0, 0, 1}))
}

// Render implements Object
func (s *Shape) Render(gl gfx.Context, projection glm.Mat4, deltaTime float32) {
	if s.state != Ready {
		panic(ErrNotReady)
	}
	modelView := s.ModelView()

	position := s.program.Attributes[VertexPositionAttribute]
	gl.BindBuffer(s.positionBuffer)
	gl.VertexAttribPointer(position, 2, false, 0, 0)
	gl.EnableVertexAttribArray(position)

	color := s.program.Attributes[VertexColorAttribute]
	gl.BindBuffer(s.colorBuffer)
	gl.VertexAttribPointer(color, 4, false, 0, 0)
	gl.EnableVertexAttribArray(color)

	gl.UseProgram(s.program.Handle)
	gl.UniformMatrix4fv(s.program.Uniforms[ProjectionUniform], projection)
	gl.UniformMatrix4fv(s.program.Uniforms[ModelViewUniform], modelView)

	gl.DrawArrays(gfx.TriangleStrip, 0, len(s.options.Vertices))

	s.angle += deltaTime
}
