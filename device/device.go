package device

// Info describes the rendering device behind a window
type Info struct {
	Vendor   string
	Renderer string
	Version  string
}

func (i Info) String() string {
	return i.Vendor + " " + i.Renderer + " (" + i.Version + ")"
}

// Device describes a non-concrete rendering surface with
// a graphics context current on the rendering thread
type Device interface {
	// Size returns the drawable size in pixels
	Size() (width, height int)

	// PollEvents handles pending window events and
	// reports whether the application should keep running
	PollEvents() bool

	// Swap presents the rendered frame
	Swap()

	// Alert shows a blocking message to the user
	Alert(title, message string)

	Destroy()
}
