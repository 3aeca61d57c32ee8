package controller

// Level is the severity of a notification
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a fire-and-forget message for the user
type Notification struct {
	Level   Level
	Message string
	Err     error
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Loader shows or hides the loading indicator. The controller counts
// overlapping requests itself and only calls SetLoading when the indicator
// should change, so implementations treat it as a plain on/off switch.
type Loader interface {
	SetLoading(on bool)
}

// LoaderFunc adapts a function to Loader
type LoaderFunc func(bool)

func (f LoaderFunc) SetLoading(on bool) { f(on) }

// Renderer draws a snapshot of the table
type Renderer interface {
	Render(Snapshot)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }
