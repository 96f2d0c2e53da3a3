package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/command"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// NodeStore is the persistence the file-system endpoints need
type NodeStore interface {
	List(ctx context.Context, owner string) ([]types.Node, error)
	Put(ctx context.Context, owner string, node types.Node) error
	Delete(ctx context.Context, owner, id string) error
}

// Deps are the collaborators of the HTTP handlers. Store may be nil, in
// which case the file-system routes are not registered.
type Deps struct {
	Kernel     *window.Manager
	Catalog    *catalog.Catalog
	Dispatcher *intent.Dispatcher
	Commands   *command.Service
	Store      NodeStore
	Metrics    *monitoring.Metrics
	Logger     *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	kernel     *window.Manager
	catalog    *catalog.Catalog
	dispatcher *intent.Dispatcher
	commands   *command.Service
	store      NodeStore
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		kernel:     deps.Kernel,
		catalog:    deps.Catalog,
		dispatcher: deps.Dispatcher,
		commands:   deps.Commands,
		store:      deps.Store,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	r.GET("/apps", h.ListApps)

	r.GET("/windows", h.ListWindows)
	r.POST("/windows", h.OpenWindow)
	r.POST("/windows/:id/focus", h.FocusWindow)
	r.DELETE("/windows/:id", h.CloseWindow)

	r.POST("/intents", h.DispatchIntent)
	r.POST("/command", h.Command)

	r.POST("/logs", h.StreamLogs)

	if h.store != nil {
		fs := r.Group("/fs/:owner")
		fs.GET("/tree", h.Tree)
		fs.GET("/nodes/:id/path", h.NodePath)
		fs.PUT("/nodes/:id", h.PutNode)
		fs.DELETE("/nodes/:id", h.DeleteNode)
	}

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Nexus OS desktop session",
		"version": Version,
	})
}

// Health reports kernel and request statistics
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"windows": h.kernel.Stats(),
		"store":   gin.H{"enabled": h.store != nil},
		"metrics": h.metrics.Snapshot(),
	})
}

// ListApps lists the app catalog
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"apps": h.catalog.List()})
}
