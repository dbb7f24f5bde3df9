package model

import (
	"context"
	"errors"

	"github.com/devblok/helix/gfx"
	glm "github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrAlreadyLoaded is returned when Load is called more than once
	ErrAlreadyLoaded = errors.New("object already loaded")

	// ErrNotReady is the panic value when rendering an object
	// that did not finish loading
	ErrNotReady = errors.New("object not ready")
)

// Object represents the engine supported model
type Object interface {

	// Load begins asynchronous preparation of the object's GPU resources.
	// onReady is called on the rendering thread once the object can be
	// rendered, and never if preparation fails.
	Load(ctx context.Context, gl gfx.Context, onReady func(Object)) error

	// Render issues the draw calls for one frame and advances the object's
	// animation by deltaTime seconds. Must only be called when ready.
	Render(gl gfx.Context, projection glm.Mat4, deltaTime float32)
}

// State is the lifecycle stage of an object
type State int

const (
	// Uninitialized objects have not started loading
	Uninitialized State = iota
	// Loading objects wait on their resources
	Loading
	// Ready objects can be rendered
	Ready
	// Failed objects could not build their program and are abandoned
	Failed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Vertex is a model vertex
type Vertex struct {
	Pos   glm.Vec2
	Color glm.Vec4
}

// Positions flattens vertex positions into a buffer ready slice
func Positions(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*2)
	for _, v := range vertices {
		out = append(out, v.Pos[:]...)
	}
	return out
}

// Colors flattens vertex colors into a buffer ready slice
func Colors(vertices []Vertex) []float32 {
	out := make([]float32, 0, len(vertices)*4)
	for _, v := range vertices {
		out = append(out, v.Color[:]...)
	}
	return out
}

// Square is a unit quad laid out as a triangle strip,
// colored white, red, green and blue.
var Square = []Vertex{
	{Pos: glm.Vec2{1, 1}, Color: glm.Vec4{1, 1, 1, 1}},
	{Pos: glm.Vec2{-1, 1}, Color: glm.Vec4{1, 0, 0, 1}},
	{Pos: glm.Vec2{1, -1}, Color: glm.Vec4{0, 1, 0, 1}},
	{Pos: glm.Vec2{-1, -1}, Color: glm.Vec4{0, 0, 1, 1}},
}
