package window

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

type recordingPublisher struct {
	events []types.WindowEvent
}

func (r *recordingPublisher) Publish(event types.WindowEvent) {
	r.events = append(r.events, event)
}

func focusedCount(windows []types.Window) int {
	n := 0
	for _, w := range windows {
		if w.Focused {
			n++
		}
	}
	return n
}

func TestOpen(t *testing.T) {
	m := NewManager(nil)

	id := m.Open("study_planner", "Smart Study Planner")
	assert.Equal(t, "study_planner", id)

	w, ok := m.Get("study_planner")
	require.True(t, ok)
	assert.Equal(t, "Smart Study Planner", w.Title)
	assert.True(t, w.Focused)
	assert.Equal(t, types.BaseStackOrder+1, w.StackOrder)
}

func TestOpenUnfocusesOthers(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")
	m.Open("b", "B")

	a, _ := m.Get("a")
	b, _ := m.Get("b")
	assert.False(t, a.Focused)
	assert.True(t, b.Focused)
	assert.Greater(t, b.StackOrder, a.StackOrder)
}

func TestOpenIsIdempotent(t *testing.T) {
	m := NewManager(nil)
	m.Open("x", "T")
	m.Open("y", "Y")
	m.Open("x", "T2")

	windows := m.List()
	count := 0
	for _, w := range windows {
		if w.ID == "x" {
			count++
			assert.Equal(t, "T", w.Title, "reopening must not change the title")
			assert.True(t, w.Focused)
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, windows, 2)
	// Insertion order is kept for display
	assert.Equal(t, "x", windows[0].ID)
}

func TestFocus(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")
	m.Open("b", "B")

	require.NoError(t, m.Focus("a"))

	a, _ := m.Get("a")
	b, _ := m.Get("b")
	assert.True(t, a.Focused)
	assert.False(t, b.Focused)
	assert.Greater(t, a.StackOrder, b.StackOrder)
}

func TestFocusNotFound(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")
	before := m.Stats()

	err := m.Focus("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.ID)

	// Failed focus consumes no stack order and changes nothing
	assert.Equal(t, before, m.Stats())
}

func TestClose(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")
	m.Open("b", "B")

	assert.True(t, m.Close("b"))
	_, ok := m.Get("b")
	assert.False(t, ok)

	// Focus is not reassigned to the remaining window
	_, focused := m.Focused()
	assert.False(t, focused)
	a, _ := m.Get("a")
	assert.False(t, a.Focused)
}

func TestCloseUnknownIsNoop(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")

	assert.False(t, m.Close("ghost"))
	assert.Len(t, m.List(), 1)
}

func TestStackOrderNeverReused(t *testing.T) {
	m := NewManager(nil)
	m.Open("x", "X")
	first, _ := m.Get("x")
	m.Close("x")

	m.Open("x", "X again")
	second, _ := m.Get("x")

	assert.Greater(t, second.StackOrder, first.StackOrder)
	assert.Equal(t, "X again", second.Title)
}

func TestInvariantsUnderRandomOperations(t *testing.T) {
	m := NewManager(nil)
	rng := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}

	lastAssigned := types.BaseStackOrder
	for i := 0; i < 2000; i++ {
		id := ids[rng.Intn(len(ids))]
		assigned := false

		switch rng.Intn(3) {
		case 0:
			m.Open(id, fmt.Sprintf("title-%d", i))
			assigned = true
		case 1:
			m.Close(id)
		case 2:
			if err := m.Focus(id); err == nil {
				assigned = true
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
		}

		windows := m.List()
		require.LessOrEqual(t, focusedCount(windows), 1, "step %d", i)

		if assigned {
			w, ok := m.Get(id)
			require.True(t, ok)
			require.True(t, w.Focused)
			require.Greater(t, w.StackOrder, lastAssigned, "step %d", i)
			lastAssigned = w.StackOrder

			for _, other := range windows {
				if other.ID != id {
					require.Less(t, other.StackOrder, w.StackOrder)
				}
			}
		}

		seen := make(map[int64]bool)
		for _, w := range windows {
			require.False(t, seen[w.StackOrder], "duplicate stack order at step %d", i)
			seen[w.StackOrder] = true
		}
	}
}

func TestStacked(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")
	m.Open("b", "B")
	m.Open("c", "C")
	require.NoError(t, m.Focus("a"))

	var order []string
	for _, w := range m.Stacked() {
		order = append(order, w.ID)
	}
	assert.Equal(t, []string{"b", "c", "a"}, order)
}

func TestStats(t *testing.T) {
	m := NewManager(nil)
	stats := m.Stats()
	assert.Equal(t, 0, stats.OpenWindows)
	assert.Nil(t, stats.FocusedWindowID)
	assert.Equal(t, int64(11), stats.NextStackOrder)

	m.Open("a", "A")
	m.Open("b", "B")

	stats = m.Stats()
	assert.Equal(t, 2, stats.OpenWindows)
	require.NotNil(t, stats.FocusedWindowID)
	assert.Equal(t, "b", *stats.FocusedWindowID)
	assert.Equal(t, int64(13), stats.NextStackOrder)
}

func TestSnapshotsAreCopies(t *testing.T) {
	m := NewManager(nil)
	m.Open("a", "A")

	windows := m.List()
	windows[0].Title = "mutated"
	windows[0].Focused = false

	w, _ := m.Get("a")
	assert.Equal(t, "A", w.Title)
	assert.True(t, w.Focused)
}

func TestPublisherAndMetrics(t *testing.T) {
	pub := &recordingPublisher{}
	metrics := monitoring.NewMetrics()
	m := NewManager(nil).WithPublisher(pub).WithMetrics(metrics)

	m.Open("a", "A")
	m.Open("a", "A")
	_ = m.Focus("missing")
	m.Close("ghost")
	m.Close("a")

	require.Len(t, pub.events, 3)
	assert.Equal(t, types.WindowOpened, pub.events[0].Type)
	assert.Equal(t, types.WindowFocused, pub.events[1].Type)
	assert.Equal(t, types.WindowClosed, pub.events[2].Type)
	assert.Len(t, pub.events[0].Windows, 1)
	assert.Empty(t, pub.events[2].Windows)

	assert.Equal(t, int64(0), metrics.Snapshot().OpenWindows)
}
