package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/codec"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

// ListWindows returns every window in insertion order plus kernel stats
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"windows": h.kernel.List(),
		"stats":   h.kernel.Stats(),
	})
}

// OpenWindow opens an application window, or focuses it if already open.
// The title defaults to the catalog title.
func (h *Handlers) OpenWindow(c *gin.Context) {
	var req types.OpenWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateID(req.AppID, "app_id", true); err != nil {
		badRequest(c, err)
		return
	}
	if err := utils.ValidateTitle(req.Title, false); err != nil {
		badRequest(c, err)
		return
	}

	title := req.Title
	if title == "" {
		title = h.catalog.Title(req.AppID)
	}

	id := h.kernel.Open(req.AppID, title)
	w, _ := h.kernel.Get(id)
	c.JSON(http.StatusOK, gin.H{
		"window": w,
		"stats":  h.kernel.Stats(),
	})
}

// FocusWindow brings an open window to the front
func (h *Handlers) FocusWindow(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id", true); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.kernel.Focus(id); err != nil {
		h.respondError(c, err)
		return
	}

	w, _ := h.kernel.Get(id)
	c.JSON(http.StatusOK, gin.H{"window": w})
}

// CloseWindow closes a window. Closing an unknown id succeeds with
// removed=false.
func (h *Handlers) CloseWindow(c *gin.Context) {
	id := c.Param("id")
	if err := utils.ValidateID(id, "window_id", true); err != nil {
		badRequest(c, err)
		return
	}

	removed := h.kernel.Close(id)
	c.JSON(http.StatusOK, gin.H{
		"removed":   removed,
		"window_id": id,
	})
}

// DispatchIntent applies a wire intent directly, bypassing the translator
func (h *Handlers) DispatchIntent(c *gin.Context) {
	body, err := readBody(c, utils.MaxJSONSize)
	if err != nil {
		badRequest(c, err)
		return
	}

	raw, err := codec.DecodeIntent(body)
	if err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.dispatcher.Dispatch(raw)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Command translates free-form text and applies the resulting intent
func (h *Handlers) Command(c *gin.Context) {
	var req types.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	out, err := h.commands.Execute(c.Request.Context(), req.Text)
	if err != nil {
		if out.Message != "" {
			// rejected intent: the translator reply is still useful
			c.JSON(statusFor(err), out)
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func readBody(c *gin.Context, limit int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	body, err := c.GetRawData()
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("request body is empty")
	}
	return body, nil
}
