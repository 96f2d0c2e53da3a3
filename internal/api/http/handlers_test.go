package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/command"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/store"
	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/translator"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

type testEnv struct {
	router *gin.Engine
	kernel *window.Manager
}

func setup(t *testing.T, tr command.Translator) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{Driver: store.DriverSQLite, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	if tr == nil {
		tr = translator.NewKeyword()
	}

	metrics := monitoring.NewMetrics()
	kernel := window.NewManager(nil).WithMetrics(metrics)
	cat := catalog.New()
	dispatcher := intent.NewDispatcher(kernel, cat, nil).WithMetrics(metrics)

	h := NewHandlers(Deps{
		Kernel:     kernel,
		Catalog:    cat,
		Dispatcher: dispatcher,
		Commands:   command.NewService(tr, dispatcher, nil),
		Store:      st,
		Metrics:    metrics,
	})

	router := gin.New()
	h.Register(router)
	return &testEnv{router: router, kernel: kernel}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRootAndHealth(t *testing.T) {
	env := setup(t, nil)

	w := env.do("GET", "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", decode(t, w)["status"])

	w = env.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "windows")
}

func TestListApps(t *testing.T) {
	env := setup(t, nil)

	w := env.do("GET", "/apps", "")
	require.Equal(t, http.StatusOK, w.Code)
	apps := decode(t, w)["apps"].([]interface{})
	assert.Len(t, apps, 4)
}

func TestWindowLifecycle(t *testing.T) {
	env := setup(t, nil)

	w := env.do("POST", "/windows", `{"app_id":"file_explorer"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	win := decode(t, w)["window"].(map[string]interface{})
	assert.Equal(t, "File System", win["title"])
	assert.Equal(t, true, win["focused"])

	w = env.do("POST", "/windows", `{"app_id":"notes","title":"My Notes"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do("POST", "/windows", `{"app_id":"unknown_app"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.DefaultTitle, decode(t, w)["window"].(map[string]interface{})["title"])

	w = env.do("POST", "/windows/file_explorer/focus", "")
	require.Equal(t, http.StatusOK, w.Code)
	focused, ok := env.kernel.Focused()
	require.True(t, ok)
	assert.Equal(t, "file_explorer", focused.ID)

	w = env.do("GET", "/windows", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["windows"], 3)
	assert.Equal(t, float64(3), body["stats"].(map[string]interface{})["open_windows"])

	w = env.do("DELETE", "/windows/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["removed"])

	w = env.do("DELETE", "/windows/notes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["removed"])
}

func TestWindowErrors(t *testing.T) {
	env := setup(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"focus unknown window", "POST", "/windows/ghost/focus", "", http.StatusNotFound},
		{"open without app id", "POST", "/windows", `{}`, http.StatusBadRequest},
		{"open with bad app id", "POST", "/windows", `{"app_id":"../etc"}`, http.StatusBadRequest},
		{"open with malformed json", "POST", "/windows", `{"app_id":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Contains(t, decode(t, w), "error")
		})
	}
	assert.Empty(t, env.kernel.List())
}

func TestDispatchIntent(t *testing.T) {
	env := setup(t, nil)

	tests := []struct {
		name       string
		body       string
		want       int
		wantAction string
	}{
		{"open application", `{"kind":"open_application","payload":{"app_id":"study_planner"}}`, http.StatusOK, "opened"},
		{"search", `{"kind":"search_virtual_file_system","payload":{"query":"notes"}}`, http.StatusOK, "opened"},
		{"none", `{"kind":"none","payload":null}`, http.StatusOK, "none"},
		{"unknown kind", `{"kind":"play_music","payload":{}}`, http.StatusOK, "none"},
		{"missing app id", `{"kind":"open_application","payload":{}}`, http.StatusUnprocessableEntity, "none"},
		{"non string query", `{"kind":"search_virtual_file_system","payload":{"query":7}}`, http.StatusUnprocessableEntity, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/intents", tt.body)
			require.Equal(t, tt.want, w.Code, w.Body.String())
			result := decode(t, w)["result"].(map[string]interface{})
			assert.Equal(t, tt.wantAction, result["action"])
		})
	}

	assert.Len(t, env.kernel.List(), 2)

	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/intents", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/intents", "{not json").Code)
}

func TestCommand(t *testing.T) {
	env := setup(t, nil)

	w := env.do("POST", "/command", `{"text":"open my planner"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Opening the Study Planner application for you.", body["message"])
	assert.Equal(t, "open_application", body["intent"].(map[string]interface{})["kind"])

	_, ok := env.kernel.Get(catalog.StudyPlanner)
	assert.True(t, ok)

	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/command", `{"text":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/command", `{"text":"   "}`).Code)
}

type failingTranslator struct{ err error }

func (f failingTranslator) Translate(context.Context, string) (types.CommandResponse, error) {
	return types.CommandResponse{}, f.err
}

type replyTranslator struct{ resp types.CommandResponse }

func (r replyTranslator) Translate(context.Context, string) (types.CommandResponse, error) {
	return r.resp, nil
}

func TestCommandTranslatorUnavailable(t *testing.T) {
	env := setup(t, failingTranslator{err: translator.ErrTranslatorUnavailable})

	w := env.do("POST", "/command", `{"text":"open planner"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Empty(t, env.kernel.List())
}

func TestCommandMalformedIntentKeepsMessage(t *testing.T) {
	env := setup(t, replyTranslator{resp: types.CommandResponse{
		Message: "Opening it",
		Intent:  types.Intent{Kind: types.IntentOpenApplication, Payload: map[string]interface{}{"app_id": ""}},
	}})

	w := env.do("POST", "/command", `{"text":"open it"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Opening it", body["message"])
	assert.NotEmpty(t, body["error"])
	assert.Empty(t, env.kernel.List())
}

func putNode(t *testing.T, env *testEnv, owner, id, body string) {
	t.Helper()
	w := env.do("PUT", "/fs/"+owner+"/nodes/"+id, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestFileSystemTree(t *testing.T) {
	env := setup(t, nil)

	putNode(t, env, "alice", "uni", `{"name":"University","kind":"folder","created_at":1}`)
	putNode(t, env, "alice", "stats", `{"name":"statistics.pdf","kind":"file","parent_id":"uni","created_at":2,"size":10}`)
	putNode(t, env, "alice", "algebra", `{"name":"Algebra","kind":"folder","parent_id":"uni","created_at":3}`)
	putNode(t, env, "alice", "x", `{"name":"x","kind":"folder","parent_id":"y","created_at":4}`)
	putNode(t, env, "alice", "y", `{"name":"y","kind":"folder","parent_id":"x","created_at":5}`)

	w := env.do("GET", "/fs/alice/tree", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(5), body["total"])
	assert.ElementsMatch(t, []interface{}{"x", "y"}, body["omitted"])

	roots := body["roots"].([]interface{})
	require.Len(t, roots, 1)
	children := roots[0].(map[string]interface{})["children"].([]interface{})
	require.Len(t, children, 2)
	assert.Equal(t, "stats", children[0].(map[string]interface{})["id"])

	w = env.do("GET", "/fs/alice/tree?sort=display", "")
	require.Equal(t, http.StatusOK, w.Code)
	roots = decode(t, w)["roots"].([]interface{})
	children = roots[0].(map[string]interface{})["children"].([]interface{})
	assert.Equal(t, "algebra", children[0].(map[string]interface{})["id"])

	assert.Equal(t, http.StatusBadRequest, env.do("GET", "/fs/alice/tree?sort=size", "").Code)

	w = env.do("GET", "/fs/bob/tree", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["roots"])
}

func TestFileSystemPath(t *testing.T) {
	env := setup(t, nil)

	putNode(t, env, "alice", "uni", `{"name":"University","kind":"folder"}`)
	putNode(t, env, "alice", "notes", `{"name":"notes.txt","kind":"file","parent_id":"uni"}`)
	putNode(t, env, "alice", "orphan", `{"name":"orphan","kind":"file","parent_id":"gone"}`)

	w := env.do("GET", "/fs/alice/nodes/notes/path", "")
	require.Equal(t, http.StatusOK, w.Code)
	path := decode(t, w)["path"].([]interface{})
	require.Len(t, path, 2)
	assert.Equal(t, "uni", path[0].(map[string]interface{})["id"])

	assert.Equal(t, http.StatusUnprocessableEntity, env.do("GET", "/fs/alice/nodes/orphan/path", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do("GET", "/fs/alice/nodes/missing/path", "").Code)
}

func TestFileSystemWriteErrors(t *testing.T) {
	env := setup(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing name", "/fs/alice/nodes/a", `{"kind":"file"}`},
		{"bad kind", "/fs/alice/nodes/a", `{"name":"a","kind":"link"}`},
		{"self parent", "/fs/alice/nodes/a", `{"name":"a","kind":"folder","parent_id":"a"}`},
		{"slash in name", "/fs/alice/nodes/a", `{"name":"a/b","kind":"file"}`},
		{"negative size", "/fs/alice/nodes/a", `{"name":"a","kind":"file","size":-1}`},
		{"bad owner", "/fs/al!ce/nodes/a", `{"name":"a","kind":"file"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("PUT", tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusNotFound, env.do("DELETE", "/fs/alice/nodes/a", "").Code)

	putNode(t, env, "alice", "a", `{"name":"a","kind":"file"}`)
	w := env.do("DELETE", "/fs/alice/nodes/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["deleted"])
}

func TestStreamLogs(t *testing.T) {
	env := setup(t, nil)

	w := env.do("POST", "/logs", `{"entries":[{"level":"warn","message":"window drag lagged","window_id":"about_os","context":{"fps":24}}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode(t, w)["accepted"])

	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/logs", `{"entries":[]}`).Code)

	var many bytes.Buffer
	many.WriteString(`{"entries":[`)
	for i := 0; i <= maxShellLogEntries; i++ {
		if i > 0 {
			many.WriteString(",")
		}
		many.WriteString(`{"message":"m"}`)
	}
	many.WriteString(`]}`)
	assert.Equal(t, http.StatusBadRequest, env.do("POST", "/logs", many.String()).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := setup(t, nil)

	env.do("POST", "/windows", `{"app_id":"about_os"}`)
	w := env.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nexus_")
}

func TestFileSystemRoutesNeedStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	kernel := window.NewManager(nil)
	h := NewHandlers(Deps{Kernel: kernel, Catalog: catalog.New()})
	router := gin.New()
	h.Register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/fs/alice/tree", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
