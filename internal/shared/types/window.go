package types

// BaseStackOrder is the highest stack order reserved for the desktop background.
// The first window ever opened in a session receives BaseStackOrder+1.
const BaseStackOrder int64 = 10

// Window represents one open application window
type Window struct {
	ID         string `json:"id"` // also the app id it was opened with
	Title      string `json:"title"`
	Focused    bool   `json:"focused"`
	StackOrder int64  `json:"stack_order"`
}

// WindowStats contains window kernel statistics
type WindowStats struct {
	OpenWindows     int     `json:"open_windows"`
	FocusedWindowID *string `json:"focused_window_id,omitempty"`
	NextStackOrder  int64   `json:"next_stack_order"`
}

// WindowEventType identifies the kernel operation that produced an event
type WindowEventType string

const (
	WindowOpened  WindowEventType = "opened"
	WindowFocused WindowEventType = "focused"
	WindowClosed  WindowEventType = "closed"
)

// WindowEvent is emitted after every applied kernel mutation and carries the
// full post-operation snapshot so subscribers never need to query back.
type WindowEvent struct {
	Type      WindowEventType `json:"type"`
	WindowID  string          `json:"window_id"`
	Windows   []Window        `json:"windows"`
	Timestamp int64           `json:"timestamp"`
}
