package intent

import (
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// SearchTitlePrefix prefixes the file explorer title opened by a search
const SearchTitlePrefix = "Search: "

// Kernel is the part of the window kernel that intents drive
type Kernel interface {
	Open(appID, title string) string
}

// TitleResolver resolves the display title of an app id
type TitleResolver interface {
	Title(appID string) string
}

// Env is what a decoded intent acts on
type Env struct {
	Kernel Kernel
	Titles TitleResolver
}

// Action describes what applying an intent did
type Action string

const (
	ActionOpened Action = "opened"
	ActionNone   Action = "none"
)

// Result is the outcome of one dispatched intent
type Result struct {
	Kind     types.IntentKind `json:"kind"`
	Action   Action           `json:"action"`
	WindowID string           `json:"window_id,omitempty"`
}

// Intent is a decoded and validated intent. Every recognised kind is its own
// variant; applying a variant performs all of its kernel calls or none.
type Intent interface {
	Kind() types.IntentKind
	Apply(env Env) Result
}

// OpenApplication opens (or focuses) an application window
type OpenApplication struct {
	AppID string
}

// Kind implements Intent
func (OpenApplication) Kind() types.IntentKind { return types.IntentOpenApplication }

// Apply implements Intent
func (i OpenApplication) Apply(env Env) Result {
	id := env.Kernel.Open(i.AppID, env.Titles.Title(i.AppID))
	return Result{Kind: i.Kind(), Action: ActionOpened, WindowID: id}
}

// SearchFileSystem opens the file explorer labelled with the query. The query
// is display text only and is never interpreted.
type SearchFileSystem struct {
	Query string
}

// Kind implements Intent
func (SearchFileSystem) Kind() types.IntentKind { return types.IntentSearchFileSystem }

// Apply implements Intent
func (i SearchFileSystem) Apply(env Env) Result {
	id := env.Kernel.Open(catalog.FileExplorer, SearchTitlePrefix+i.Query)
	return Result{Kind: i.Kind(), Action: ActionOpened, WindowID: id}
}

// NoAction is the variant for "none" and for every unrecognised kind
type NoAction struct {
	Requested types.IntentKind
}

// Kind implements Intent
func (i NoAction) Kind() types.IntentKind { return i.Requested }

// Apply implements Intent
func (i NoAction) Apply(Env) Result {
	return Result{Kind: i.Requested, Action: ActionNone}
}
