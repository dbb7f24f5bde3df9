// Package scene drives the per-frame loop: it owns the projection, the
// registered objects and the timing between display refreshes.
package scene

import (
	"context"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/gfx"
	"github.com/devblok/helix/model"
	glm "github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// Projection parameters
const (
	FieldOfView = 45
	ZNear       = 0.1
	ZFar        = 100
)

// New creates a scene rendering to gl. Continuations dispatched to queue
// run at the start of every frame, frames are scheduled through frames.
func New(gl gfx.Context, frames core.FrameRequester, queue *core.Queue, cfg core.TimeConfiguration) *Scene {
	return &Scene{
		gl:         gl,
		frames:     frames,
		queue:      queue,
		maxDelta:   cfg.MaxDelta,
		projection: glm.Ident4(),
	}
}

// Scene renders its registered objects once per frame, forever.
// Objects are appended as they become ready and never removed.
type Scene struct {
	gl     gfx.Context
	frames core.FrameRequester
	queue  *core.Queue

	maxDelta   float64
	projection glm.Mat4
	objects    []model.Object

	lastFrame float64
	started   bool
	rendered  uint64
}

// Init starts loading every object and schedules the first frame.
// An object registers itself once its resources are ready. The first
// frame is requested even if some object refuses to load; the first
// such error is returned.
func (s *Scene) Init(ctx context.Context, objects ...model.Object) error {
	var first error
	for _, o := range objects {
		if err := o.Load(ctx, s.gl, s.register); err != nil {
			log.WithError(err).Warn("object not loaded")
			if first == nil {
				first = err
			}
		}
	}

	s.frames.RequestFrame(s.tick)
	return first
}

func (s *Scene) register(o model.Object) {
	s.objects = append(s.objects, o)
	log.WithField("objects", len(s.objects)).Debug("object registered")
}

func (s *Scene) tick(timestamp float64) {
	s.queue.Drain()

	now := timestamp / 1000
	var deltaTime float64
	if s.started {
		deltaTime = now - s.lastFrame
	}
	if s.maxDelta > 0 && deltaTime > s.maxDelta {
		deltaTime = s.maxDelta
	}
	s.lastFrame = now
	s.started = true
	s.rendered++

	width, height := s.gl.Size()
	s.gl.Viewport(0, 0, width, height)

	s.gl.ClearColor(0, 0, 0, 1)
	s.gl.ClearDepth(1)
	s.gl.EnableDepthTest()
	s.gl.SetDepthFunc(gfx.LessEqual)
	s.gl.Clear(gfx.ColorBuffer | gfx.DepthBuffer)

	if height == 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	s.projection = glm.Perspective(glm.DegToRad(FieldOfView), aspect, ZNear, ZFar)

	for _, o := range s.objects {
		o.Render(s.gl, s.projection, float32(deltaTime))
	}

	s.frames.RequestFrame(s.tick)
}

// Objects returns the registered objects in registration order
func (s *Scene) Objects() []model.Object {
	return append([]model.Object(nil), s.objects...)
}

// Projection returns the projection used by the last frame
func (s *Scene) Projection() glm.Mat4 {
	return s.projection
}

// LastFrame returns the timestamp of the last frame in seconds
func (s *Scene) LastFrame() float64 {
	return s.lastFrame
}

// Frames returns how many frames were rendered
func (s *Scene) Frames() uint64 {
	return s.rendered
}
