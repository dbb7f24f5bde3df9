package scene_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/devblok/helix/core"
	"github.com/devblok/helix/gfx"
	"github.com/devblok/helix/gfx/gfxtest"
	"github.com/devblok/helix/model"
	"github.com/devblok/helix/resource"
	"github.com/devblok/helix/scene"
	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
)

// frames captures the requested callback so tests decide when frames happen
type frames struct {
	pending  core.FrameCallback
	requests int
}

func (f *frames) RequestFrame(cb core.FrameCallback) {
	f.pending = cb
	f.requests++
}

func (f *frames) fire(c *qt.C, timestamp float64) {
	c.Helper()
	cb := f.pending
	c.Assert(cb, qt.Not(qt.IsNil))
	f.pending = nil
	cb(timestamp)
}

// object becomes ready only when the test releases it
type object struct {
	name    string
	loadErr error
	onReady func(model.Object)
	deltas  []float32
	order   *[]string
}

func (o *object) Load(ctx context.Context, gl gfx.Context, onReady func(model.Object)) error {
	if o.loadErr != nil {
		return o.loadErr
	}
	o.onReady = onReady
	return nil
}

func (o *object) Render(gl gfx.Context, projection glm.Mat4, deltaTime float32) {
	o.deltas = append(o.deltas, deltaTime)
	if o.order != nil {
		*o.order = append(*o.order, o.name)
	}
}

func (o *object) ready(q *core.Queue) {
	q.Dispatch(func() { o.onReady(o) })
}

func newTestScene(width, height int, cfg core.TimeConfiguration) (*scene.Scene, *gfxtest.Recorder, *frames, *core.Queue) {
	gl := gfxtest.NewRecorder(width, height)
	f := &frames{}
	q := core.NewQueue()
	return scene.New(gl, f, q, cfg), gl, f, q
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestFrameDeltas(t *testing.T) {
	c := qt.New(t)
	s, _, f, q := newTestScene(640, 480, core.TimeConfiguration{})
	o := &object{name: "square"}
	c.Assert(s.Init(context.Background(), o), qt.IsNil)
	c.Assert(f.requests, qt.Equals, 1)
	o.ready(q)

	for _, ts := range []float64{1000, 1016, 1033} {
		f.fire(c, ts)
	}

	c.Assert(o.deltas, qt.HasLen, 3)
	c.Assert(o.deltas[0], qt.Equals, float32(0))
	c.Assert(approx(float64(o.deltas[1]), 0.016), qt.IsTrue)
	c.Assert(approx(float64(o.deltas[2]), 0.017), qt.IsTrue)
	c.Assert(s.LastFrame(), qt.Equals, 1.033)
	c.Assert(s.Frames(), qt.Equals, uint64(3))
	c.Assert(f.requests, qt.Equals, 4)
}

func TestMaxDelta(t *testing.T) {
	c := qt.New(t)
	s, _, f, q := newTestScene(640, 480, core.TimeConfiguration{MaxDelta: 0.1})
	o := &object{name: "square"}
	c.Assert(s.Init(context.Background(), o), qt.IsNil)
	o.ready(q)

	f.fire(c, 0)
	f.fire(c, 5000)
	f.fire(c, 5050)

	c.Assert(o.deltas[1], qt.Equals, float32(0.1))
	c.Assert(approx(float64(o.deltas[2]), 0.05), qt.IsTrue)
}

func TestRegistrationOrder(t *testing.T) {
	c := qt.New(t)
	s, _, f, q := newTestScene(640, 480, core.TimeConfiguration{})
	var order []string
	first := &object{name: "first", order: &order}
	second := &object{name: "second", order: &order}
	c.Assert(s.Init(context.Background(), first, second), qt.IsNil)

	first.ready(q)
	for i := 1; i <= 5; i++ {
		if i == 5 {
			second.ready(q)
		}
		f.fire(c, float64(i)*16)
	}

	c.Assert(first.deltas, qt.HasLen, 5)
	c.Assert(second.deltas, qt.HasLen, 1)
	c.Assert(order[len(order)-2:], qt.DeepEquals, []string{"first", "second"})
	objects := s.Objects()
	c.Assert(objects, qt.HasLen, 2)
	c.Assert(objects[0], qt.Equals, model.Object(first))
	c.Assert(objects[1], qt.Equals, model.Object(second))
}

func TestTickState(t *testing.T) {
	c := qt.New(t)
	s, gl, f, _ := newTestScene(640, 480, core.TimeConfiguration{})
	c.Assert(s.Init(context.Background()), qt.IsNil)

	f.fire(c, 16)

	calls := gl.Calls()
	c.Assert(calls, qt.HasLen, 6)
	c.Assert(calls[0].Name, qt.Equals, "Viewport")
	c.Assert(calls[0].Args, qt.DeepEquals, []interface{}{0, 0, 640, 480})
	c.Assert(calls[1].Args, qt.DeepEquals, []interface{}{float32(0), float32(0), float32(0), float32(1)})
	c.Assert(calls[2].Args, qt.DeepEquals, []interface{}{float32(1)})
	c.Assert(calls[3].Name, qt.Equals, "EnableDepthTest")
	c.Assert(calls[4].Args, qt.DeepEquals, []interface{}{gfx.LessEqual})
	c.Assert(calls[5].Args, qt.DeepEquals, []interface{}{gfx.ColorBuffer | gfx.DepthBuffer})
	c.Assert(f.requests, qt.Equals, 2)
}

func TestAspectChange(t *testing.T) {
	c := qt.New(t)
	s, gl, f, _ := newTestScene(640, 480, core.TimeConfiguration{})
	c.Assert(s.Init(context.Background()), qt.IsNil)

	f.fire(c, 16)
	before := s.Projection()
	gl.SetSize(1280, 480)
	f.fire(c, 32)
	after := s.Projection()

	c.Assert(after, qt.Equals, glm.Perspective(glm.DegToRad(45), 1280.0/480.0, 0.1, 100))
	c.Assert(after[0], qt.Not(qt.Equals), before[0])
	for i := 1; i < 16; i++ {
		c.Assert(after[i], qt.Equals, before[i], qt.Commentf("element %d", i))
	}
}

func TestZeroHeight(t *testing.T) {
	c := qt.New(t)
	s, _, f, _ := newTestScene(640, 0, core.TimeConfiguration{})
	c.Assert(s.Init(context.Background()), qt.IsNil)
	f.fire(c, 16)

	for _, v := range s.Projection() {
		c.Assert(math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), qt.IsFalse)
	}
}

func TestInitLoadError(t *testing.T) {
	c := qt.New(t)
	s, _, f, _ := newTestScene(640, 480, core.TimeConfiguration{})
	failing := &object{name: "failing", loadErr: model.ErrAlreadyLoaded}
	ok := &object{name: "ok"}

	err := s.Init(context.Background(), failing, ok)
	c.Assert(errors.Is(err, model.ErrAlreadyLoaded), qt.IsTrue)
	c.Assert(f.requests, qt.Equals, 1)
	c.Assert(ok.onReady, qt.Not(qt.IsNil))
}

func newShape(q *core.Queue) *model.Shape {
	fetcher := resource.FetcherFunc(func(ctx context.Context, id string) ([]byte, error) {
		return []byte("void main(){}"), nil
	})
	return model.NewShape(resource.NewLoader(fetcher, q), nil, model.ShapeOptions{})
}

func waitFor(c *qt.C, q *core.Queue, cond func() bool) {
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			c.Fatal("timed out")
		}
		select {
		case <-q.Notify():
		case <-time.After(5 * time.Millisecond):
		}
		q.Drain()
	}
}

func TestShapeRotation(t *testing.T) {
	c := qt.New(t)
	s, gl, f, q := newTestScene(640, 480, core.TimeConfiguration{})
	shape := newShape(q)
	c.Assert(s.Init(context.Background(), shape), qt.IsNil)
	waitFor(c, q, func() bool { return len(s.Objects()) == 1 })

	var sum float32
	last := 1000.0
	for i, ts := range []float64{1000, 1016, 1033} {
		if i > 0 {
			sum += float32(ts/1000 - last/1000)
		}
		last = ts
		f.fire(c, ts)
	}

	c.Assert(approx(float64(shape.Angle()), float64(sum)), qt.IsTrue)
	c.Assert(approx(float64(shape.Angle()), 0.033), qt.IsTrue)
	c.Assert(gl.Count("DrawArrays"), qt.Equals, 3)
}

func TestFailedObjectKeepsLooping(t *testing.T) {
	c := qt.New(t)
	s, gl, f, q := newTestScene(640, 480, core.TimeConfiguration{})
	gl.FailLink = "link failed"
	shape := newShape(q)
	c.Assert(s.Init(context.Background(), shape), qt.IsNil)
	waitFor(c, q, func() bool { return shape.State() == model.Failed })

	for i := 1; i <= 3; i++ {
		f.fire(c, float64(i)*16)
	}

	c.Assert(s.Objects(), qt.HasLen, 0)
	c.Assert(gl.Count("DrawArrays"), qt.Equals, 0)
	c.Assert(gl.Count("Clear"), qt.Equals, 3)
	c.Assert(f.requests, qt.Equals, 4)
}

func TestWithTimeService(t *testing.T) {
	c := qt.New(t)
	gl := gfxtest.NewRecorder(640, 480)
	clock := core.NewTime(core.TimeConfiguration{FramesPerSecond: 60})
	defer clock.Stop()
	q := core.NewQueue()
	s := scene.New(gl, clock, q, core.TimeConfiguration{})

	c.Assert(clock.Step(), qt.IsFalse)
	c.Assert(s.Init(context.Background()), qt.IsNil)
	c.Assert(clock.Step(), qt.IsTrue)
	c.Assert(clock.Step(), qt.IsTrue)
	c.Assert(s.Frames(), qt.Equals, uint64(2))
}
