// Package catalog resolves application ids to the titles and icons shown on
// the desktop.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

// DefaultTitle is used for app ids the catalog does not know
const DefaultTitle = "New Window"

// Well-known application ids
const (
	AboutOS        = "about_os"
	FileExplorer   = "file_explorer"
	StudyPlanner   = "study_planner"
	SystemSettings = "system_settings"
)

// App describes one launchable application
type App struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Title string `json:"title" yaml:"title" toml:"title"`
	Icon  string `json:"icon,omitempty" yaml:"icon" toml:"icon"`
}

type file struct {
	Apps []App `yaml:"apps" toml:"apps"`
}

// Catalog maps app ids to their desktop metadata
type Catalog struct {
	mu   sync.RWMutex
	apps map[string]App
}

// New returns a catalog seeded with the built-in desktop applications
func New() *Catalog {
	c := &Catalog{apps: make(map[string]App)}
	for _, app := range builtins() {
		c.apps[app.ID] = app
	}
	return c
}

func builtins() []App {
	return []App{
		{ID: AboutOS, Title: "About Nexus OS", Icon: "🌐"},
		{ID: FileExplorer, Title: "File System", Icon: "📁"},
		{ID: StudyPlanner, Title: "Smart Study Planner", Icon: "📅"},
		{ID: SystemSettings, Title: "Settings", Icon: "⚙️"},
	}
}

// Load returns the built-in catalog merged with the apps defined in path.
// The format is chosen by extension: .yaml, .yml or .toml.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	apps, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", filepath.Base(path), err)
	}

	c := New()
	for _, app := range apps {
		if err := c.Add(app); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Parse decodes a catalog document in the given format
func Parse(data []byte, ext string) ([]App, error) {
	var f file
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	return f.Apps, nil
}

// Add registers or replaces an app
func (c *Catalog) Add(app App) error {
	if err := utils.ValidateID(app.ID, "app_id", true); err != nil {
		return err
	}
	if app.Title == "" {
		return fmt.Errorf("app %s: title is required", app.ID)
	}

	c.mu.Lock()
	c.apps[app.ID] = app
	c.mu.Unlock()
	return nil
}

// Get returns the app registered under id
func (c *Catalog) Get(id string) (App, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	app, ok := c.apps[id]
	return app, ok
}

// Title resolves the display title of an app id
func (c *Catalog) Title(appID string) string {
	if app, ok := c.Get(appID); ok {
		return app.Title
	}
	return DefaultTitle
}

// List returns all apps sorted by id
func (c *Catalog) List() []App {
	c.mu.RLock()
	defer c.mu.RUnlock()

	apps := make([]App, 0, len(c.apps))
	for _, app := range c.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps
}
