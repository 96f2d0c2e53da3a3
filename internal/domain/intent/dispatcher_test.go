package intent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

type openCall struct {
	appID string
	title string
}

type mockKernel struct {
	calls []openCall
}

func (m *mockKernel) Open(appID, title string) string {
	m.calls = append(m.calls, openCall{appID, title})
	return appID
}

func setup() (*window.Manager, *Dispatcher) {
	kernel := window.NewManager(nil)
	return kernel, NewDispatcher(kernel, catalog.New(), nil)
}

func TestDispatchOpenApplication(t *testing.T) {
	kernel, d := setup()

	result, err := d.Dispatch(types.Intent{
		Kind:    types.IntentOpenApplication,
		Payload: map[string]interface{}{"app_id": "study_planner"},
	})
	require.NoError(t, err)
	assert.Equal(t, ActionOpened, result.Action)
	assert.Equal(t, "study_planner", result.WindowID)

	windows := kernel.List()
	require.Len(t, windows, 1)
	assert.Equal(t, "study_planner", windows[0].ID)
	assert.Equal(t, "Smart Study Planner", windows[0].Title)
	assert.True(t, windows[0].Focused)
}

func TestDispatchOpenUnknownAppUsesDefaultTitle(t *testing.T) {
	kernel, d := setup()

	_, err := d.Dispatch(types.Intent{
		Kind:    types.IntentOpenApplication,
		Payload: map[string]interface{}{"app_id": "calculator"},
	})
	require.NoError(t, err)

	w, ok := kernel.Get("calculator")
	require.True(t, ok)
	assert.Equal(t, catalog.DefaultTitle, w.Title)
}

func TestDispatchSearch(t *testing.T) {
	kernel, d := setup()

	result, err := d.Dispatch(types.Intent{
		Kind:    types.IntentSearchFileSystem,
		Payload: map[string]interface{}{"query": "<b>stats</b> notes"},
	})
	require.NoError(t, err)
	assert.Equal(t, catalog.FileExplorer, result.WindowID)

	w, ok := kernel.Get(catalog.FileExplorer)
	require.True(t, ok)
	assert.Equal(t, "Search: <b>stats</b> notes", w.Title, "query is passed through verbatim")
	assert.True(t, w.Focused)
}

func TestDispatchSearchWhileExplorerOpenKeepsTitle(t *testing.T) {
	kernel, d := setup()
	kernel.Open(catalog.FileExplorer, "File System")
	kernel.Open("study_planner", "Smart Study Planner")

	_, err := d.Dispatch(types.Intent{
		Kind:    types.IntentSearchFileSystem,
		Payload: map[string]interface{}{"query": "resume"},
	})
	require.NoError(t, err)

	w, _ := kernel.Get(catalog.FileExplorer)
	assert.Equal(t, "File System", w.Title)
	assert.True(t, w.Focused)
}

func TestDispatchNoActionKinds(t *testing.T) {
	tests := []struct {
		name string
		in   types.Intent
	}{
		{"none", types.Intent{Kind: types.IntentNone}},
		{"none with payload", types.Intent{Kind: types.IntentNone, Payload: map[string]interface{}{"x": 1}}},
		{"empty kind", types.Intent{}},
		{"unknown kind", types.Intent{Kind: "reboot_system", Payload: map[string]interface{}{"force": true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &mockKernel{}
			d := NewDispatcher(k, catalog.New(), nil)

			result, err := d.Dispatch(tt.in)
			require.NoError(t, err)
			assert.Equal(t, ActionNone, result.Action)
			assert.Empty(t, k.calls)
		})
	}
}

func TestDispatchMalformed(t *testing.T) {
	tests := []struct {
		name   string
		in     types.Intent
		field  string
		reason string
	}{
		{"open with empty payload", types.Intent{Kind: types.IntentOpenApplication, Payload: map[string]interface{}{}}, "app_id", "is required"},
		{"open with nil payload", types.Intent{Kind: types.IntentOpenApplication}, "app_id", "is required"},
		{"open with empty id", types.Intent{Kind: types.IntentOpenApplication, Payload: map[string]interface{}{"app_id": ""}}, "app_id", "must not be empty"},
		{"open with numeric id", types.Intent{Kind: types.IntentOpenApplication, Payload: map[string]interface{}{"app_id": 42.0}}, "app_id", "must be a string"},
		{"open with null id", types.Intent{Kind: types.IntentOpenApplication, Payload: map[string]interface{}{"app_id": nil}}, "app_id", "is required"},
		{"search without query", types.Intent{Kind: types.IntentSearchFileSystem, Payload: map[string]interface{}{"q": "x"}}, "query", "is required"},
		{"search with empty query", types.Intent{Kind: types.IntentSearchFileSystem, Payload: map[string]interface{}{"query": ""}}, "query", "must not be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel, d := setup()
			kernel.Open("a", "A")
			before := kernel.List()

			_, err := d.Dispatch(tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedIntent))

			var malformed *MalformedIntentError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.in.Kind, malformed.Kind)
			assert.Equal(t, tt.field, malformed.Field)
			assert.Equal(t, tt.reason, malformed.Reason)

			assert.Equal(t, before, kernel.List(), "window collection must be unchanged")
			assert.Equal(t, int64(12), kernel.Stats().NextStackOrder, "no stack order consumed")
		})
	}
}

type closeAll struct{}

func (c closeAll) Kind() types.IntentKind { return "close_all" }

func (c closeAll) Apply(env Env) Result {
	return Result{Kind: c.Kind(), Action: "closed"}
}

func TestRegisterCustomKind(t *testing.T) {
	_, d := setup()

	d.Register("close_all", func(payload map[string]interface{}) (Intent, error) {
		if _, err := RequireString("close_all", payload, "reason"); err != nil {
			return nil, err
		}
		return closeAll{}, nil
	})

	result, err := d.Dispatch(types.Intent{Kind: "close_all", Payload: map[string]interface{}{"reason": "done"}})
	require.NoError(t, err)
	assert.Equal(t, Action("closed"), result.Action)

	_, err = d.Dispatch(types.Intent{Kind: "close_all"})
	assert.ErrorIs(t, err, ErrMalformedIntent)

	// Package-level Decode only knows the built-in kinds
	in, err := Decode(types.Intent{Kind: "close_all"})
	require.NoError(t, err)
	assert.Equal(t, NoAction{Requested: "close_all"}, in)
}

func TestRegisterNilDecoders(t *testing.T) {
	tests := []struct {
		name   string
		decode DecodeFunc
	}{
		{"nil func", nil},
		{"func returning no intent", func(map[string]interface{}) (Intent, error) { return nil, nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel, d := setup()
			d.Register("custom", tt.decode)

			var result Result
			var err error
			require.NotPanics(t, func() {
				result, err = d.Dispatch(types.Intent{Kind: "custom"})
			})
			require.NoError(t, err)
			assert.Equal(t, ActionNone, result.Action)
			assert.Empty(t, kernel.List())
		})
	}
}

func TestRegisterNilRemovesKind(t *testing.T) {
	kernel, d := setup()
	d.Register(types.IntentOpenApplication, nil)

	result, err := d.Dispatch(types.Intent{
		Kind:    types.IntentOpenApplication,
		Payload: map[string]interface{}{"app_id": "study_planner"},
	})
	require.NoError(t, err)
	assert.Equal(t, ActionNone, result.Action)
	assert.Empty(t, kernel.List())
}

func TestDecodeVariants(t *testing.T) {
	in, err := Decode(types.Intent{Kind: types.IntentOpenApplication, Payload: map[string]interface{}{"app_id": "x"}})
	require.NoError(t, err)
	assert.Equal(t, OpenApplication{AppID: "x"}, in)

	in, err = Decode(types.Intent{Kind: types.IntentSearchFileSystem, Payload: map[string]interface{}{"query": "q"}})
	require.NoError(t, err)
	assert.Equal(t, SearchFileSystem{Query: "q"}, in)
}
