package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

// PutNodeRequest is the body of PUT /fs/:owner/nodes/:id
type PutNodeRequest struct {
	Name       string         `json:"name" binding:"required"`
	Kind       types.NodeKind `json:"kind" binding:"required"`
	ParentID   *string        `json:"parent_id"`
	CreatedAt  int64          `json:"created_at"`
	Size       *int64         `json:"size"`
	MimeType   string         `json:"mime_type"`
	StorageURL string         `json:"storage_url"`
}

func ownerParam(c *gin.Context) (string, bool) {
	owner := c.Param("owner")
	if err := utils.ValidateID(owner, "owner", true); err != nil {
		badRequest(c, err)
		return "", false
	}
	return owner, true
}

// Tree loads an owner's flat nodes and returns the projected forest.
// ?sort=display orders siblings folders first, then by name.
func (h *Handlers) Tree(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}

	nodes, err := h.store.List(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}

	projection := vfs.ProjectDetailed(nodes)
	h.metrics.RecordProjection(len(nodes), len(projection.Omitted))

	switch c.Query("sort") {
	case "":
	case "display":
		vfs.SortChildren(projection.Roots)
	default:
		badRequest(c, fmt.Errorf("unknown sort %q", c.Query("sort")))
		return
	}

	omitted := projection.Omitted
	if omitted == nil {
		omitted = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"owner":   owner,
		"roots":   projection.Roots,
		"omitted": omitted,
		"total":   len(nodes),
	})
}

// NodePath returns the breadcrumb of a node, top-level folder first
func (h *Handlers) NodePath(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	id := c.Param("id")

	nodes, err := h.store.List(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}

	path, ok := vfs.Breadcrumb(nodes, id)
	if !ok {
		for _, n := range nodes {
			if n.ID == id {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "node is not reachable from the root"})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found: " + id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// PutNode creates or replaces a node
func (h *Handlers) PutNode(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := utils.ValidateID(id, "id", true); err != nil {
		badRequest(c, err)
		return
	}

	var req PutNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := validateNode(id, req); err != nil {
		badRequest(c, err)
		return
	}

	node := types.Node{
		ID:         id,
		Name:       req.Name,
		Kind:       req.Kind,
		ParentID:   req.ParentID,
		CreatedAt:  req.CreatedAt,
		Size:       req.Size,
		MimeType:   req.MimeType,
		StorageURL: req.StorageURL,
	}
	if node.CreatedAt == 0 {
		node.CreatedAt = time.Now().UnixMilli()
	}

	if err := h.store.Put(c.Request.Context(), owner, node); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"node": node})
}

// DeleteNode removes a node. Its children are kept and stop being
// reachable until they are re-parented.
func (h *Handlers) DeleteNode(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	id := c.Param("id")

	if err := h.store.Delete(c.Request.Context(), owner, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "id": id})
}

func validateNode(id string, req PutNodeRequest) error {
	if err := utils.ValidateName(req.Name, "name"); err != nil {
		return err
	}
	switch req.Kind {
	case types.NodeFolder, types.NodeFile:
	default:
		return fmt.Errorf("kind must be %q or %q", types.NodeFolder, types.NodeFile)
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return errors.New("a node cannot be its own parent")
		}
		if err := utils.ValidateID(*req.ParentID, "parent_id", true); err != nil {
			return err
		}
	}
	if req.Size != nil && *req.Size < 0 {
		return errors.New("size must not be negative")
	}
	return nil
}
