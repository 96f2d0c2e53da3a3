// Package window provides the window session kernel of the desktop.
//
// The Manager owns every open window of a session, which one is focused and
// how windows stack. Its operations are the only way to change that state and
// each one is applied atomically.
//
// Invariants:
//   - At most one window is focused (none when no window is open)
//   - Stack orders are handed out from a counter starting at 11 that is never
//     reset or decremented, so the focused window always has the highest value
//   - Open on an already open id focuses it and keeps its title
//   - Close never moves focus to another window
//
// Example Usage:
//
//	manager := window.NewManager(logger)
//	manager.Open("study_planner", "Smart Study Planner")
//	if err := manager.Focus("file_explorer"); errors.Is(err, window.ErrNotFound) {
//	    manager.Open("file_explorer", "File System")
//	}
//	manager.Close("study_planner")
package window
