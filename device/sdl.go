package device

import (
	"fmt"

	"github.com/devblok/helix/core"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// NewSDLDevice opens a window with an OpenGL 2.1 context made current
// on the calling thread, which becomes the rendering thread.
func NewSDLDevice(cfg core.RendererConfiguration) (*SDL, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, err
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 2)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.ScreenWidth),
		int32(cfg.ScreenHeight),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	context, err := window.GLCreateContext()
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("unable to initialize OpenGL: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		log.WithError(err).Warn("swap interval not supported")
	}

	return &SDL{
		window:  window,
		context: context,
	}, nil
}

// SDL is a Device backed by an SDL window
type SDL struct {
	window  *sdl.Window
	context sdl.GLContext
}

// Size implements Device
func (s *SDL) Size() (int, int) {
	w, h := s.window.GLGetDrawableSize()
	return int(w), int(h)
}

// PollEvents implements Device, quit and escape end the application
func (s *SDL) PollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch et := event.(type) {
		case *sdl.KeyboardEvent:
			if et.Keysym.Sym == sdl.K_ESCAPE {
				return false
			}
		case *sdl.QuitEvent:
			return false
		}
	}
	return true
}

// Swap implements Device
func (s *SDL) Swap() {
	s.window.GLSwap()
}

// Alert implements Device
func (s *SDL) Alert(title, message string) {
	if err := sdl.ShowSimpleMessageBox(sdl.MESSAGEBOX_ERROR, title, message, s.window); err != nil {
		log.WithError(err).Errorf("%s: %s", title, message)
	}
}

// Destroy implements Device
func (s *SDL) Destroy() {
	sdl.GLDeleteContext(s.context)
	s.window.Destroy()
	sdl.Quit()
}
