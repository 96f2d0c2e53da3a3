package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/command"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/window"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/events"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/codec"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	commandTimeout = 2 * time.Minute
	outboxSize     = 16
)

// Deps are the collaborators of the stream handler
type Deps struct {
	Kernel     *window.Manager
	Titles     intent.TitleResolver
	Dispatcher *intent.Dispatcher
	Commands   *command.Service
	Events     *events.Broadcaster
	Metrics    *monitoring.Metrics
	Logger     *zap.Logger
}

// Handler serves the live desktop stream
type Handler struct {
	deps     Deps
	logger   *zap.Logger
	upgrader websocket.Upgrader
	conns    sync.WaitGroup
}

// NewHandler creates a new WebSocket handler
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		deps:   deps,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// origins are enforced by the CORS middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Wait blocks until every connection handled so far has finished
func (h *Handler) Wait() {
	h.conns.Wait()
}

// HandleConnection upgrades the request and runs one client session: a
// snapshot on connect and after every kernel change, plus request/reply
// messages from the client.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.conns.Add(1)
	defer h.conns.Done()

	h.deps.Metrics.IncWSConnections()
	defer h.deps.Metrics.DecWSConnections()

	s := &session{
		h:          h,
		id:         id.NewSessionID(),
		conn:       conn,
		outbox:     make(chan interface{}, outboxSize),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	s.run(c.Request.Context())
}

// session owns one connection. Only the writer goroutine writes to conn.
type session struct {
	h          *Handler
	id         string
	conn       *websocket.Conn
	outbox     chan interface{}
	done       chan struct{} // reader finished
	writerDone chan struct{}
}

func (s *session) run(ctx context.Context) {
	logger := s.h.logger.With(zap.String("session_id", s.id))
	logger.Debug("Stream session started")
	defer logger.Debug("Stream session ended")

	sub := s.h.deps.Events.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(s.writerDone)
		s.writeLoop(sub)
	}()

	s.readLoop(ctx)

	close(s.done)
	wg.Wait()
	s.h.deps.Events.Unsubscribe(sub)
	s.conn.Close()
}

func (s *session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(utils.MaxJSONSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.h.logger.Debug("WebSocket read error",
					zap.String("session_id", s.id),
					zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := codec.Unmarshal(data, &msg); err != nil {
			s.replyError("invalid message")
			continue
		}
		s.h.deps.Metrics.RecordWSMessage("in", msg.Type)
		s.handle(ctx, msg)
	}
}

// writeLoop sends the connect snapshot before any queued event. sub is
// already subscribed, so every change after the snapshot is still delivered.
func (s *session) writeLoop(sub chan types.WindowEvent) {
	if err := s.write(snapshotMessage("snapshot", "", s.h.deps.Kernel.List())); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case ev, ok := <-sub:
			if !ok {
				s.conn.Close()
				return
			}
			if err := s.write(snapshotMessage(string(ev.Type), ev.WindowID, ev.Windows)); err != nil {
				return
			}
		case msg := <-s.outbox:
			if err := s.write(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *session) write(msg interface{}) error {
	data, err := codec.Marshal(msg)
	if err != nil {
		s.h.logger.Error("Failed to encode stream message", zap.Error(err))
		return nil
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		// unblock the reader
		s.conn.Close()
		return err
	}
	s.h.deps.Metrics.RecordWSMessage("out", messageType(msg))
	return nil
}

func (s *session) reply(msg map[string]interface{}) {
	select {
	case s.outbox <- msg:
	case <-s.writerDone:
	}
}

func (s *session) replyError(message string) {
	s.reply(map[string]interface{}{"type": "error", "message": message})
}

func (s *session) handle(ctx context.Context, msg types.WSMessage) {
	kernel := s.h.deps.Kernel

	switch msg.Type {
	case "ping":
		s.reply(map[string]interface{}{"type": "pong"})

	case "open":
		if err := utils.ValidateID(msg.AppID, "app_id", true); err != nil {
			s.replyError(err.Error())
			return
		}
		title := msg.Title
		if title == "" {
			title = s.h.deps.Titles.Title(msg.AppID)
		}
		kernel.Open(msg.AppID, title)

	case "focus":
		if err := kernel.Focus(msg.AppID); err != nil {
			s.replyError(err.Error())
		}

	case "close":
		kernel.Close(msg.AppID)

	case "intent":
		if msg.Intent == nil {
			s.replyError("intent is required")
			return
		}
		result, err := s.h.deps.Dispatcher.Dispatch(*msg.Intent)
		out := map[string]interface{}{"type": "intent_result", "result": result}
		if err != nil {
			out["error"] = err.Error()
		}
		s.reply(out)

	case "command":
		cctx, cancel := context.WithTimeout(ctx, commandTimeout)
		defer cancel()
		outcome, err := s.h.deps.Commands.Execute(cctx, msg.Text)
		if err != nil && outcome.Message == "" {
			s.replyError(err.Error())
			return
		}
		s.reply(map[string]interface{}{"type": "command_result", "outcome": outcome})

	default:
		s.replyError("unknown message type")
	}
}

func snapshotMessage(event, windowID string, windows []types.Window) map[string]interface{} {
	if windows == nil {
		windows = []types.Window{}
	}
	return map[string]interface{}{
		"type":      "snapshot",
		"event":     event,
		"window_id": windowID,
		"windows":   windows,
		"timestamp": time.Now().Unix(),
	}
}

func messageType(msg interface{}) string {
	if m, ok := msg.(map[string]interface{}); ok {
		if t, ok := m["type"].(string); ok {
			return t
		}
	}
	return "unknown"
}
