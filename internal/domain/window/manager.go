package window

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Publisher receives an event after every applied operation.
// Publish is called with the kernel lock held and must not block.
type Publisher interface {
	Publish(event types.WindowEvent)
}

// Manager is the window session kernel. It owns the open windows of one
// session, their focus and their stacking order, and is the only mutation path.
type Manager struct {
	mu        sync.Mutex
	windows   []*types.Window // Protected by mu; insertion order
	nextStack int64           // Protected by mu; never decremented
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	publisher Publisher
}

// NewManager creates an empty window kernel
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		nextStack: types.BaseStackOrder + 1,
		logger:    logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithPublisher attaches a change publisher to the manager
func (m *Manager) WithPublisher(p Publisher) *Manager {
	m.publisher = p
	return m
}

// Open opens appID with the given title and focuses it. Opening an app that is
// already open focuses the existing window and keeps its original title.
// Open always succeeds and returns the window id.
func (m *Manager) Open(appID, title string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w := m.find(appID); w != nil {
		m.raise(w)
		m.logger.Debug("Window already open, focused",
			zap.String("window_id", appID),
			zap.Int64("stack_order", w.StackOrder),
		)
		m.emit(types.WindowFocused, appID)
		return appID
	}

	w := &types.Window{ID: appID, Title: title}
	m.windows = append(m.windows, w)
	m.raise(w)

	m.logger.Debug("Window opened",
		zap.String("window_id", appID),
		zap.String("title", title),
		zap.Int64("stack_order", w.StackOrder),
	)
	m.emit(types.WindowOpened, appID)
	return appID
}

// Close removes the window if present. Closing an unknown id is a no-op.
// Focus is never reassigned: after closing the focused window none is focused.
func (m *Manager) Close(appID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, w := range m.windows {
		if w.ID != appID {
			continue
		}
		m.windows = append(m.windows[:i], m.windows[i+1:]...)
		m.logger.Debug("Window closed", zap.String("window_id", appID))
		m.emit(types.WindowClosed, appID)
		return true
	}
	return false
}

// Focus brings an open window to the top of the stack.
// It returns a *NotFoundError when no window with that id is open.
func (m *Manager) Focus(appID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := m.find(appID)
	if w == nil {
		return &NotFoundError{ID: appID}
	}

	m.raise(w)
	m.logger.Debug("Window focused",
		zap.String("window_id", appID),
		zap.Int64("stack_order", w.StackOrder),
	)
	m.emit(types.WindowFocused, appID)
	return nil
}

// Get retrieves a copy of a window by id
func (m *Manager) Get(id string) (types.Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w := m.find(id); w != nil {
		return *w, true
	}
	return types.Window{}, false
}

// List returns a snapshot of all open windows in insertion order
func (m *Manager) List() []types.Window {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Stacked returns a snapshot ordered bottom to top by stack order
func (m *Manager) Stacked() []types.Window {
	windows := m.List()
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StackOrder < windows[j].StackOrder
	})
	return windows
}

// Focused returns the focused window, if any
func (m *Manager) Focused() (types.Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.windows {
		if w.Focused {
			return *w, true
		}
	}
	return types.Window{}, false
}

// Stats returns manager statistics
func (m *Manager) Stats() types.WindowStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := types.WindowStats{
		OpenWindows:    len(m.windows),
		NextStackOrder: m.nextStack,
	}
	for _, w := range m.windows {
		if w.Focused {
			id := w.ID
			stats.FocusedWindowID = &id
			break
		}
	}
	return stats
}

// find returns the window with id (must hold lock)
func (m *Manager) find(id string) *types.Window {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// raise focuses w alone and assigns it the next stack order (must hold lock)
func (m *Manager) raise(w *types.Window) {
	for _, other := range m.windows {
		other.Focused = false
	}
	w.Focused = true
	w.StackOrder = m.nextStack
	m.nextStack++
}

// snapshot copies the window list (must hold lock)
func (m *Manager) snapshot() []types.Window {
	out := make([]types.Window, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

// emit records metrics and publishes the post-operation state (must hold lock)
func (m *Manager) emit(kind types.WindowEventType, id string) {
	m.metrics.RecordWindowOp(string(kind), len(m.windows))
	if m.publisher == nil {
		return
	}
	m.publisher.Publish(types.WindowEvent{
		Type:      kind,
		WindowID:  id,
		Windows:   m.snapshot(),
		Timestamp: time.Now().Unix(),
	})
}
